package robotics

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vbonduro/roboadmin/internal/domain"
)

type userRecord struct {
	ID    text `json:"id"`
	Email text `json:"email"`
	Name  text `json:"name"`
}

// Login authenticates an admin. Missing user fields default to id "1", the
// submitted email and the name "Admin".
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	env, err := c.call(ctx, "login", map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	var rec userRecord
	if len(env.User) > 0 && string(env.User) != "null" {
		if err := json.Unmarshal(env.User, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode login user: %w", err)
		}
	}

	user := &domain.User{ID: rec.ID.String(), Email: rec.Email.String(), Name: rec.Name.String()}
	if user.ID == "" {
		user.ID = "1"
	}
	if user.Email == "" {
		user.Email = email
	}
	if user.Name == "" {
		user.Name = "Admin"
	}
	return user, nil
}

// ForgotPassword asks the upstream to mail a one-time code to email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	_, err := c.call(ctx, "forgotpassword", map[string]string{"email": email})
	return err
}

func (c *Client) VerifyOTP(ctx context.Context, email, otp string) error {
	_, err := c.call(ctx, "verify-otp", map[string]string{"email": email, "otp": otp})
	return err
}

// ResetPassword sets a new password after a verified one-time code.
func (c *Client) ResetPassword(ctx context.Context, email, password string) error {
	_, err := c.call(ctx, "change/password", map[string]string{"email": email, "password": password})
	return err
}

// ChangePassword changes the signed-in admin's password. The upstream signals
// the outcome through the success flag rather than result.
func (c *Client) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	const path = "change/password"
	env, err := c.postJSON(ctx, path, map[string]string{
		"email":       email,
		"oldPassword": oldPassword,
		"password":    newPassword,
	})
	if err != nil {
		return err
	}
	if !env.Success {
		return c.rejected(path, env)
	}
	return nil
}
