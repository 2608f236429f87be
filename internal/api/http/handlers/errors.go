package handlers

import (
	"errors"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/repository"
	"github.com/spec-kit/blog-service/internal/service"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// mapAuthError translates service errors into response errors. Credential
// and token failures map to fixed messages so no cause leaks.
func mapAuthError(err error) error {
	var policyErr *auth.PolicyError
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return apperrors.NewUnauthorized(service.ErrInvalidCredentials.Error())
	case errors.Is(err, auth.ErrTokenInvalid):
		return apperrors.NewUnauthorized(auth.ErrTokenInvalid.Error())
	case errors.As(err, &policyErr):
		return apperrors.NewValidationError(policyErr.Message, map[string]any{"field": "password"})
	case errors.Is(err, service.ErrEmailRequired):
		return apperrors.NewValidationError(err.Error(), map[string]any{"field": "email"})
	case errors.Is(err, repository.ErrEmailTaken):
		return apperrors.NewConflict(repository.ErrEmailTaken.Error(), map[string]any{"field": "email"})
	case errors.Is(err, repository.ErrUsernameTaken):
		return apperrors.NewConflict(repository.ErrUsernameTaken.Error(), map[string]any{"field": "username"})
	default:
		return apperrors.NewInternalError(err)
	}
}
