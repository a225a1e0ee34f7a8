package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/chatdesk/internal/client/client"
	"github.com/dmitrijs2005/chatdesk/internal/client/events"
	"github.com/dmitrijs2005/chatdesk/internal/client/models"
)

// fakeClient implements client.Client for service tests. Each method records
// its call and returns the preset result.
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	LoginRet    *models.LoginResult
	LoginErr    error
	RegisterRet *models.Registration
	RegisterErr error
	MessageRet  *models.Message
	MessageErr  error
	ResendRet   *models.VerificationResend
	ForgotRet   *models.PasswordReset
	MeRet       *models.User
	MeErr       error
	UpdateRet   *models.User
	UpdateErr   error

	LastEmail    string
	LastFullName string
	LastToken    string
	LastPassword string
	LastOld      string
	LastUpdate   models.ProfileUpdate

	// onCall runs before every method, e.g. to simulate the 401 hook.
	onCall func(ctx context.Context, method string)
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) record(ctx context.Context, method string) {
	f.mu.Lock()
	f.calls = append(f.calls, method)
	hook := f.onCall
	f.mu.Unlock()
	if hook != nil {
		hook(ctx, method)
	}
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	f.record(ctx, "Login")
	f.LastEmail, f.LastPassword = email, password
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Register(ctx context.Context, email, fullName string) (*models.Registration, error) {
	f.record(ctx, "Register")
	f.LastEmail, f.LastFullName = email, fullName
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeClient) VerifyEmail(ctx context.Context, token string) (*models.Message, error) {
	f.record(ctx, "VerifyEmail")
	f.LastToken = token
	return f.MessageRet, f.MessageErr
}

func (f *fakeClient) SetPassword(ctx context.Context, token, password string) (*models.Message, error) {
	f.record(ctx, "SetPassword")
	f.LastToken, f.LastPassword = token, password
	return f.MessageRet, f.MessageErr
}

func (f *fakeClient) ResendVerification(ctx context.Context, email string) (*models.VerificationResend, error) {
	f.record(ctx, "ResendVerification")
	f.LastEmail = email
	return f.ResendRet, nil
}

func (f *fakeClient) ForgotPassword(ctx context.Context, email string) (*models.PasswordReset, error) {
	f.record(ctx, "ForgotPassword")
	f.LastEmail = email
	return f.ForgotRet, nil
}

func (f *fakeClient) ResetPassword(ctx context.Context, token, password string) (*models.Message, error) {
	f.record(ctx, "ResetPassword")
	f.LastToken, f.LastPassword = token, password
	return f.MessageRet, f.MessageErr
}

func (f *fakeClient) Me(ctx context.Context) (*models.User, error) {
	f.record(ctx, "Me")
	return f.MeRet, f.MeErr
}

func (f *fakeClient) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	f.record(ctx, "UpdateProfile")
	f.LastUpdate = update
	return f.UpdateRet, f.UpdateErr
}

func (f *fakeClient) ChangePassword(ctx context.Context, oldPassword, newPassword string) (*models.Message, error) {
	f.record(ctx, "ChangePassword")
	f.LastOld, f.LastPassword = oldPassword, newPassword
	return f.MessageRet, f.MessageErr
}

// recordingBus is an events.Bus that remembers what was published.
type recordingBus struct {
	*events.LocalBus
	mu        sync.Mutex
	published []events.Topic
}

func newRecordingBus() *recordingBus {
	return &recordingBus{LocalBus: events.NewLocalBus()}
}

func (b *recordingBus) Publish(ctx context.Context, t events.Topic) {
	b.mu.Lock()
	b.published = append(b.published, t)
	b.mu.Unlock()
	b.LocalBus.Publish(ctx, t)
}

func (b *recordingBus) Published() []events.Topic {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]events.Topic(nil), b.published...)
}
