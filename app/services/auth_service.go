package services

import (
	"context"
	"time"

	"github.com/shoestop/backend/app/models"
	"github.com/shoestop/backend/app/repositories"
	"github.com/shoestop/backend/pkg/apperr"
	"github.com/shoestop/backend/pkg/auth"
	"github.com/shoestop/backend/pkg/logger"
	"github.com/shoestop/backend/pkg/queue"
)

// AuthService handles registration, login, email verification and password
// reset.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// RegisterInput is the signup payload.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,min=7,max=20"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Register creates an unverified account and queues the verification email.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal("auth: hash password", err)
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Password: hash,
		Role:     models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := auth.GeneratePurposeToken(user.ID.Hex(), auth.PurposeVerifyEmail, 48*time.Hour)
	if err != nil {
		return nil, apperr.Internal("auth: verification token", err)
	}
	if err := queue.Dispatch(&VerificationEmailJob{
		Email: user.Email, Name: user.Name, Token: token,
	}); err != nil {
		// Account exists; the user can request a new link later.
		logger.WithCtx(ctx).Warn("auth: verification email not queued", "error", err)
	}

	return user, nil
}

// LoginInput is the credentials payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the issued tokens and the account.
type LoginResult struct {
	User         *models.User `json:"user"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
}

// Login verifies credentials and issues a JWT pair. Unverified accounts are
// rejected until they confirm their email.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Invalid credentials")
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, in.Password) {
		return nil, apperr.Unauthorized("Invalid credentials")
	}
	if !user.IsVerified {
		return nil, apperr.Forbidden("Please verify your email first")
	}

	token, err := auth.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, apperr.Internal("auth: sign token", err)
	}
	refresh, err := auth.GenerateRefreshToken(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, apperr.Internal("auth: sign refresh token", err)
	}

	return &LoginResult{User: user, Token: token, RefreshToken: refresh}, nil
}

// VerifyEmail confirms the account behind a verification token.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := auth.ValidatePurposeToken(token, auth.PurposeVerifyEmail)
	if err != nil {
		return apperr.Unauthorized("Invalid or expired verification link")
	}
	return s.users.MarkVerified(ctx, claims.UserID)
}

// ForgotPassword queues a reset email. Unknown emails are silently accepted
// so the endpoint cannot be used to probe accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil
		}
		return err
	}

	token, err := auth.GeneratePurposeToken(user.ID.Hex(), auth.PurposeResetPassword, time.Hour)
	if err != nil {
		return apperr.Internal("auth: reset token", err)
	}
	return queue.Dispatch(&PasswordResetEmailJob{
		Email: user.Email, Name: user.Name, Token: token,
	})
}

// ResetPasswordInput carries the reset token and the new password.
type ResetPasswordInput struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// ResetPassword replaces the password behind a valid reset token.
func (s *AuthService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	claims, err := auth.ValidatePurposeToken(in.Token, auth.PurposeResetPassword)
	if err != nil {
		return apperr.Unauthorized("Invalid or expired reset link")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return apperr.Internal("auth: hash password", err)
	}
	return s.users.UpdatePassword(ctx, claims.UserID, hash)
}

// Me returns the account behind an authenticated request.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.users.FindByID(ctx, userID)
}
