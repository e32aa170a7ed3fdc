package services

import (
	"context"
	"strings"

	"github.com/shoestop/backend/app/models"
	"github.com/shoestop/backend/app/repositories"
	"github.com/shoestop/backend/pkg/apperr"
	"github.com/shoestop/backend/pkg/auth"
	"github.com/shoestop/backend/pkg/logger"
)

// UserService backs the admin user-management endpoints: paginated account
// listing, role changes and account deletion.
type UserService struct {
	users UserAdminStore
}

func NewUserService(users UserAdminStore) *UserService {
	return &UserService{users: users}
}

// List returns one page of accounts for the staff dashboard. Page floors at
// 1; limit clamps to [1,100] with a default of 15.
func (s *UserService) List(ctx context.Context, f repositories.UserListFilter) ([]models.User, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 15
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	f.Role = strings.ToLower(strings.TrimSpace(f.Role))
	if f.Role != "" && !models.ValidRole(f.Role) {
		return nil, 0, apperr.Validation("Invalid role")
	}
	return s.users.List(ctx, f)
}

// UpdateRole changes the role of the account behind email.
func (s *UserService) UpdateRole(ctx context.Context, email, role string) (*models.User, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if !models.ValidRole(role) {
		return nil, apperr.Validation("Invalid role")
	}

	user, err := s.users.UpdateRole(ctx, normalizeEmail(email), role)
	if err != nil {
		return nil, err
	}

	logger.WithCtx(ctx).Info("user role updated", "email", user.Email, "role", user.Role)
	return user, nil
}

// Delete removes the account behind email. Callers cannot delete themselves,
// and moderators may only delete plain user accounts.
func (s *UserService) Delete(ctx context.Context, caller auth.Identity, email string) error {
	target, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}

	if target.ID.Hex() == caller.UserID {
		return apperr.Forbidden("You cannot delete your own account")
	}
	if caller.Role == models.RoleModerator && target.Role != models.RoleUser {
		return apperr.Forbidden("Moderators can delete only user accounts")
	}

	if err := s.users.Delete(ctx, target.ID); err != nil {
		return err
	}

	logger.WithCtx(ctx).Info("user deleted", "email", target.Email, "role", target.Role)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
