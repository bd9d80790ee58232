package common

import (
	"context"
	"errors"
	"fmt"

	"github.com/vinopick/backend/internal/entity"
	"github.com/vinopick/backend/internal/repository"
	"github.com/vinopick/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
)

type RoleVerifier struct {
	userRepo repository.UserRepository
}

func NewRoleVerifier(userRepo repository.UserRepository) *RoleVerifier {
	return &RoleVerifier{userRepo: userRepo}
}

// Verify checks that the request user has one of the required roles. The role is read from
// the database so that a demoted reviewer loses access before the token expires.
func (verifier *RoleVerifier) Verify(ctx context.Context, requiredRoles ...entity.UserRole) error {
	userID := xcontext.RequestUserID(ctx)
	u, err := verifier.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("user is not valid: %w", err)
	}

	if !slices.Contains(requiredRoles, u.Role) {
		return errors.New("user role does not have permission")
	}

	return nil
}
