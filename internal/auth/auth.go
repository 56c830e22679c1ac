// Package auth is the only writer of the session: it signs admins in and out
// and drives the account recovery endpoints.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/paradisepeak/ppadmin/internal/api"
	"github.com/paradisepeak/ppadmin/internal/models"
	"github.com/paradisepeak/ppadmin/internal/session"
)

// ErrInvalidCredentials is returned when login answers without a token and
// without a message of its own.
var ErrInvalidCredentials = errors.New("Invalid credentials")

// Flow ties the API client to the session it writes.
type Flow struct {
	client  *api.Client
	session *session.Manager
	logger  *slog.Logger
}

func New(client *api.Client, s *session.Manager, logger *slog.Logger) *Flow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Flow{client: client, session: s, logger: logger}
}

// Login authenticates and stores token, role and user id.
func (f *Flow) Login(ctx context.Context, email, password string) (models.LoginResult, error) {
	res, err := f.client.Login(ctx, models.Credentials{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		return models.LoginResult{}, fmt.Errorf("login: %w", err)
	}
	if res.Token == "" {
		if res.Message != "" {
			return res, errors.New(res.Message)
		}
		return res, ErrInvalidCredentials
	}
	if err := f.session.SignIn(res.Token, res.Role, res.UserID); err != nil {
		return res, err
	}
	f.logger.Info("signed in", "role", res.Role, "user", res.UserID)
	return res, nil
}

// Register creates an account. An empty role defaults to admin, matching the
// signup form. The session is left untouched; the new account signs in separately.
func (f *Flow) Register(ctx context.Context, reg models.Registration) (string, error) {
	if reg.Role == "" {
		reg.Role = session.RoleAdmin
	}
	msg, err := f.client.Register(ctx, reg)
	if err != nil {
		return "", fmt.Errorf("registration: %w", err)
	}
	return orDefault(msg.Message, "Registration successful!"), nil
}

// ForgotPassword asks the server to mail a reset link.
func (f *Flow) ForgotPassword(ctx context.Context, email string) (string, error) {
	msg, err := f.client.ForgotPassword(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", fmt.Errorf("password reset request: %w", err)
	}
	return orDefault(msg.Message, "Verification email sent!"), nil
}

// ResetPassword sets a new password using the mailed token.
func (f *Flow) ResetPassword(ctx context.Context, token, password string) (string, error) {
	if token == "" {
		return "", errors.New("reset token is required")
	}
	msg, err := f.client.ResetPassword(ctx, models.PasswordReset{Token: token, Password: password})
	if err != nil {
		return "", fmt.Errorf("password reset: %w", err)
	}
	return orDefault(msg.Message, "Password reset successful!"), nil
}

// Logout clears the stored session.
func (f *Flow) Logout() error {
	if err := f.session.SignOut(); err != nil {
		return err
	}
	f.logger.Info("signed out")
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
