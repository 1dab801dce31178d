package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vbonduro/roboadmin/internal/domain"
	"github.com/vbonduro/roboadmin/internal/robotics"
)

const minPasswordLength = 6

// authAPI is the subset of robotics.Client that AuthService requires.
type authAPI interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
	ForgotPassword(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) error
	ResetPassword(ctx context.Context, email, password string) error
	ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error
}

const genericFailure = "An error occurred. Please try again."

type AuthService struct {
	api    authAPI
	logger *slog.Logger
}

func NewAuthService(api authAPI, logger *slog.Logger) *AuthService {
	return &AuthService{api: api, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	errs := ValidationErrors{}
	if email == "" {
		errs["email"] = "Email is required."
	}
	if password == "" {
		errs["password"] = "Password is required."
	}
	if err := errs.orNil(); err != nil {
		return nil, err
	}

	user, err := s.api.Login(ctx, email, password)
	if errors.Is(err, robotics.ErrRejected) {
		s.logger.Info("login refused", "email", email)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}

	s.logger.Info("admin signed in", "email", user.Email)
	return user, nil
}

// RequestReset starts the wizard by mailing a code to email.
func (s *AuthService) RequestReset(ctx context.Context, email string) (domain.PasswordReset, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.PasswordReset{}, ValidationErrors{"email": "Email is required."}
	}

	if err := s.api.ForgotPassword(ctx, email); err != nil {
		return domain.PasswordReset{}, s.wizardFailure(err, "Email address not found")
	}

	return domain.PasswordReset{Email: email, OTPSent: true}, nil
}

// VerifyOTP checks the 4-digit code sent by RequestReset.
func (s *AuthService) VerifyOTP(ctx context.Context, state domain.PasswordReset, otp string) (domain.PasswordReset, error) {
	if !state.OTPSent || state.Email == "" {
		return state, ErrResetOutOfOrder
	}

	otp = strings.TrimSpace(otp)
	if !isOTP(otp) {
		return state, ValidationErrors{"otp": "Enter the 4-digit code from the email."}
	}

	if err := s.api.VerifyOTP(ctx, state.Email, otp); err != nil {
		return state, s.wizardFailure(err, "Invalid OTP. Please check and try again.")
	}

	state.OTPVerified = true
	return state, nil
}

// ResetPassword finishes the wizard. The caller clears the state on success.
func (s *AuthService) ResetPassword(ctx context.Context, state domain.PasswordReset, password, confirm string) error {
	if !state.OTPVerified || state.Email == "" {
		return ErrResetOutOfOrder
	}
	if err := checkNewPassword(password, confirm); err != nil {
		return err
	}

	if err := s.api.ResetPassword(ctx, state.Email, password); err != nil {
		return s.wizardFailure(err, "Failed to reset password. Please try again.")
	}

	s.logger.Info("password reset", "email", state.Email)
	return nil
}

// ChangePassword changes the signed-in admin's password.
func (s *AuthService) ChangePassword(ctx context.Context, user *domain.User, oldPassword, password, confirm string) error {
	errs := ValidationErrors{}
	if oldPassword == "" {
		errs["old_password"] = "Current password is required."
	}
	if err := checkNewPassword(password, confirm); err != nil {
		for k, v := range AsValidation(err) {
			errs[k] = v
		}
	}
	if err := errs.orNil(); err != nil {
		return err
	}

	if err := s.api.ChangePassword(ctx, user.Email, oldPassword, password); err != nil {
		return s.wizardFailure(err, "Failed to change password. Check the current password.")
	}

	s.logger.Info("password changed", "email", user.Email)
	return nil
}

func (s *AuthService) wizardFailure(err error, rejected string) error {
	if errors.Is(err, robotics.ErrRejected) {
		return ValidationErrors{FormField: rejected}
	}
	s.logger.Error("password flow call failed", "error", err)
	return ValidationErrors{FormField: genericFailure}
}

func checkNewPassword(password, confirm string) error {
	if password != confirm {
		return ValidationErrors{"confirm_password": "Passwords do not match"}
	}
	if len(password) < minPasswordLength {
		return ValidationErrors{"password": "Password must be at least 6 characters long"}
	}
	return nil
}

func isOTP(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
