package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/api/middleware"
	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/core/domain"
)

// currentUser returns the user attached by the Auth middleware. A missing
// user means the route was registered without the guard.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get(middleware.UserKey).(*domain.User)
	if !ok || user == nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}
