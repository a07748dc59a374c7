package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/api/metrics"
	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/core/domain"
	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/core/ports"
)

// UserKey is the echo.Context key holding the authenticated *domain.User.
const UserKey = "user"

const bearerPrefix = "Bearer "

type userCtxKey struct{}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, user)
}

// UserFromContext returns the user stored by WithUser, if any.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userCtxKey{}).(*domain.User)
	return u, ok && u != nil
}

// Auth resolves the bearer token to a user and attaches it to the request.
// Every rejection surfaces as domain.ErrUnauthorized; the concrete reason is
// only logged.
func Auth(authn ports.Authenticator, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), bearerPrefix)
			if !ok || strings.TrimSpace(token) == "" {
				return reject(c, log, domain.ErrMissingToken)
			}

			ctx := c.Request().Context()
			user, err := authn.Authenticate(ctx, token)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrInvalidToken):
					return reject(c, log, err)
				case errors.Is(err, domain.ErrUnauthorized):
					return reject(c, log, domain.ErrUserNotFound)
				}
				return err
			}

			c.Set(UserKey, user)
			c.SetRequest(c.Request().WithContext(WithUser(ctx, user)))
			return next(c)
		}
	}
}

func reject(c echo.Context, log zerolog.Logger, reason error) error {
	label := reason.Error()
	if errors.Is(reason, domain.ErrInvalidToken) {
		label = domain.ErrInvalidToken.Error()
	}
	metrics.AuthRejectionsTotal.WithLabelValues(label).Inc()

	log.Debug().
		Err(reason).
		Str("reason", label).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("request not authorized")
	return domain.ErrUnauthorized
}
