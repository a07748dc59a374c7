package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/core/domain"
	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/core/ports"
)

const minPasswordLen = 6

// AuthConfig is the immutable configuration of the AuthService.
type AuthConfig struct {
	JWTSecret  string
	Issuer     string
	TokenTTL   time.Duration
	BcryptCost int
}

// AuthService implements registration, login and bearer token resolution.
type AuthService struct {
	users     ports.UserRepository
	throttle  ports.LoginThrottle
	tokens    *TokenIssuer
	cost      int
	dummyHash []byte
	validate  *validator.Validate
	log       zerolog.Logger
}

// NewAuthService builds an AuthService. A nil throttle disables login limiting.
func NewAuthService(users ports.UserRepository, throttle ports.LoginThrottle, cfg AuthConfig, log zerolog.Logger) *AuthService {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if throttle == nil {
		throttle = noThrottle{}
	}

	// Compared against when the email is unknown so both login failures take
	// the same time.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)

	return &AuthService{
		users:     users,
		throttle:  throttle,
		tokens:    NewTokenIssuer(cfg.JWTSecret, cfg.Issuer, cfg.TokenTTL),
		cost:      cost,
		dummyHash: dummy,
		validate:  validator.New(),
		log:       log,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	if err := s.validateRegister(in); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	token, err := s.tokens.Issue(created.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return &ports.AuthResult{User: created.Public(), Token: token}, nil
}

// Login checks credentials. Unknown email and wrong password both yield
// domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	allowed, err := s.throttle.Allowed(ctx, in.Email)
	if err != nil {
		s.log.Warn().Err(err).Msg("login throttle check failed, proceeding")
	} else if !allowed {
		return nil, domain.ErrTooManyAttempts
	}

	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("login: lookup email: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(in.Password))
		s.recordFailure(ctx, in.Email)
		return nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		s.recordFailure(ctx, in.Email)
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.throttle.Reset(ctx, in.Email); err != nil {
		s.log.Warn().Err(err).Msg("failed to reset login throttle")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{User: user.Public(), Token: token}, nil
}

// Authenticate verifies token and loads the user it names. Verification
// failures wrap domain.ErrInvalidToken; a missing user wraps
// domain.ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return user, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if err := s.throttle.Fail(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}

func (s *AuthService) validateRegister(in ports.RegisterInput) error {
	verr := domain.NewValidationError()
	if in.Email == "" {
		verr.Add("email", "is required")
	} else if s.validate.Var(in.Email, "email") != nil {
		verr.Add("email", "must be a valid email")
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLen {
		verr.Add("password", fmt.Sprintf("must be at least %d characters", minPasswordLen))
	}
	if strings.TrimSpace(in.Name) == "" {
		verr.Add("name", "is required")
	}
	return verr.OrNil()
}

type noThrottle struct{}

func (noThrottle) Allowed(context.Context, string) (bool, error) { return true, nil }
func (noThrottle) Fail(context.Context, string) error            { return nil }
func (noThrottle) Reset(context.Context, string) error           { return nil }
