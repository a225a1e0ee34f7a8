package client

import (
	"context"

	"github.com/dmitrijs2005/chatdesk/internal/client/models"
)

// Client is the REST contract of the chatbot-management backend as used by
// the console. Every method returns an *Error on failure.
type Client interface {
	Login(ctx context.Context, email, password string) (*models.LoginResult, error)
	Register(ctx context.Context, email, fullName string) (*models.Registration, error)
	VerifyEmail(ctx context.Context, token string) (*models.Message, error)
	SetPassword(ctx context.Context, token, password string) (*models.Message, error)
	ResendVerification(ctx context.Context, email string) (*models.VerificationResend, error)
	ForgotPassword(ctx context.Context, email string) (*models.PasswordReset, error)
	ResetPassword(ctx context.Context, token, password string) (*models.Message, error)
	Me(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) (*models.Message, error)
}

// TokenSource returns the bearer token to attach to the next request, or ""
// when there is none.
type TokenSource func(ctx context.Context) string

// UnauthorizedHook is called after any response with status 401.
type UnauthorizedHook func(ctx context.Context)
