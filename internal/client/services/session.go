package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/chatdesk/internal/client/client"
	"github.com/dmitrijs2005/chatdesk/internal/client/events"
	"github.com/dmitrijs2005/chatdesk/internal/client/models"
	"github.com/dmitrijs2005/chatdesk/internal/client/repositories/session"
	"github.com/dmitrijs2005/chatdesk/internal/client/validation"
	"github.com/dmitrijs2005/chatdesk/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// SessionService is the single source of truth for whether the console is
// signed in and as whom.
//
// Contract:
//   - Every failure is a *client.Error whose kind matches one of
//     client.ErrValidation, ErrAuth, ErrToken, ErrNetwork, ErrBackend.
//     Local store failures are ErrBackend.
//   - Client-side rules are checked before any network call.
//   - Any 401 from the backend clears the stored session (HandleUnauthorized).
//
// All methods must honor context cancellation/timeouts.
type SessionService interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, email, fullName string) (*models.Registration, error)
	VerifyEmail(ctx context.Context, token string) (string, error)
	SetPassword(ctx context.Context, token, password string) (string, error)
	ResendVerification(ctx context.Context, email string) (*models.VerificationResend, error)
	ForgotPassword(ctx context.Context, email string) (*models.PasswordReset, error)
	ResetPassword(ctx context.Context, token, password string) (string, error)
	CurrentUser(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) (string, error)
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (models.Session, error)
	Session(ctx context.Context) (models.Session, error)

	// Token is a client.TokenSource for the API client.
	Token(ctx context.Context) string
	// HandleUnauthorized is a client.UnauthorizedHook for the API client.
	HandleUnauthorized(ctx context.Context)
}

type sessionService struct {
	client client.Client
	repo   session.Repository
	bus    events.Bus
	log    logging.Logger
	now    func() time.Time
}

// NewSessionService constructs a SessionService over the API client, the
// persisted session and the notification bus.
func NewSessionService(c client.Client, repo session.Repository, bus events.Bus, log logging.Logger) SessionService {
	return &sessionService{client: c, repo: repo, bus: bus, log: log, now: time.Now}
}

func validationError(msg string) error {
	return client.NewError(client.ErrValidation, msg)
}

func checkEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return validationError("Please enter your email address")
	}
	if !validation.ValidEmail(email) {
		return validationError("Please enter a valid email address")
	}
	return nil
}

func checkNewPassword(p string) error {
	c := validation.CheckPassword(p)
	if c.IsValid {
		return nil
	}
	return validationError("Password must contain " + strings.Join(c.Unmet(), ", "))
}

// storageError reports a local store failure as a backend error with the
// generic display message.
func storageError(op string, err error) error {
	return &client.Error{Kind: client.ErrBackend, Message: client.FallbackErrorMessage, Err: fmt.Errorf("%s: %w", op, err)}
}

func sanitized(v *string) *string {
	if v == nil {
		return nil
	}
	out := validation.Sanitize(*v)
	return &out
}

func (s *sessionService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, validationError("Please enter email and password")
	}
	if !validation.ValidEmail(email) {
		return nil, validationError("Please enter a valid email address")
	}

	res, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if res.AccessToken == "" {
		return nil, client.NewError(client.ErrBackend, client.FallbackErrorMessage)
	}

	if err := s.repo.Save(ctx, res.AccessToken, res.User); err != nil {
		return nil, storageError("save session", err)
	}

	// The profile fetch needs the stored token. Only a rejection fails the
	// login; otherwise Restore hydrates the profile later.
	user := res.User
	if user == nil {
		user, err = s.client.Me(ctx)
		switch {
		case errors.Is(err, client.ErrAuth):
			if cerr := s.repo.Clear(ctx); cerr != nil {
				s.log.Error(ctx, "failed to clear rejected session", "error", cerr)
			}
			return nil, err
		case err != nil:
			s.log.Warn(ctx, "failed to fetch profile after login", "error", err)
			user = &models.User{Email: email}
		default:
			if err := s.repo.SaveUser(ctx, user); err != nil {
				return nil, storageError("save session", err)
			}
		}
	}
	u := user.WithFullName()

	s.log.Info(ctx, "signed in", "user_id", u.ID)
	s.bus.Publish(ctx, events.TopicSessionChanged)
	return &u, nil
}

func (s *sessionService) Register(ctx context.Context, email, fullName string) (*models.Registration, error) {
	if err := checkEmail(email); err != nil {
		return nil, err
	}
	return s.client.Register(ctx, strings.TrimSpace(email), validation.Sanitize(fullName))
}

func (s *sessionService) VerifyEmail(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", client.NewError(client.ErrToken, "Verification token is missing")
	}
	res, err := s.client.VerifyEmail(ctx, token)
	if err != nil {
		return "", err
	}
	return res.Message, nil
}

func (s *sessionService) SetPassword(ctx context.Context, token, password string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", client.NewError(client.ErrToken, "Verification token is missing")
	}
	if err := checkNewPassword(password); err != nil {
		return "", err
	}
	res, err := s.client.SetPassword(ctx, token, password)
	if err != nil {
		return "", err
	}
	return res.Message, nil
}

func (s *sessionService) ResendVerification(ctx context.Context, email string) (*models.VerificationResend, error) {
	if err := checkEmail(email); err != nil {
		return nil, err
	}
	return s.client.ResendVerification(ctx, strings.TrimSpace(email))
}

func (s *sessionService) ForgotPassword(ctx context.Context, email string) (*models.PasswordReset, error) {
	if err := checkEmail(email); err != nil {
		return nil, err
	}
	return s.client.ForgotPassword(ctx, strings.TrimSpace(email))
}

func (s *sessionService) ResetPassword(ctx context.Context, token, password string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", client.NewError(client.ErrToken, "Invalid or missing reset token")
	}
	if err := checkNewPassword(password); err != nil {
		return "", err
	}
	res, err := s.client.ResetPassword(ctx, token, password)
	if err != nil {
		return "", err
	}
	return res.Message, nil
}

// CurrentUser fetches the authoritative profile and re-caches it.
func (s *sessionService) CurrentUser(ctx context.Context) (*models.User, error) {
	if err := s.requireToken(ctx); err != nil {
		return nil, err
	}
	user, err := s.client.Me(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveUser(ctx, user); err != nil {
		s.log.Warn(ctx, "failed to cache profile", "error", err)
	}
	s.bus.Publish(ctx, events.TopicSessionChanged)
	return user, nil
}

func (s *sessionService) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	if err := s.requireToken(ctx); err != nil {
		return nil, err
	}
	if update.Email != nil && *update.Email != "" && !validation.ValidEmail(*update.Email) {
		return nil, validationError("Please enter a valid email address")
	}
	update.FirstName = sanitized(update.FirstName)
	update.LastName = sanitized(update.LastName)
	if _, ok := update.Payload(); !ok {
		return nil, validationError("At least one field (firstName, lastName, or email) must be provided")
	}

	user, err := s.client.UpdateProfile(ctx, update)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveUser(ctx, user); err != nil {
		s.log.Warn(ctx, "failed to cache profile", "error", err)
	}
	s.bus.Publish(ctx, events.TopicSessionChanged)
	return user, nil
}

func (s *sessionService) ChangePassword(ctx context.Context, oldPassword, newPassword string) (string, error) {
	if err := s.requireToken(ctx); err != nil {
		return "", err
	}
	if oldPassword == "" {
		return "", validationError("Please enter your current password")
	}
	if err := checkNewPassword(newPassword); err != nil {
		return "", err
	}
	if oldPassword == newPassword {
		return "", validationError("New password must be different from the current password")
	}
	res, err := s.client.ChangePassword(ctx, oldPassword, newPassword)
	if err != nil {
		return "", err
	}
	return res.Message, nil
}

// Logout is a client-local teardown; the backend keeps no session state.
func (s *sessionService) Logout(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return storageError("logout", err)
	}
	s.log.Info(ctx, "signed out")
	s.bus.Publish(ctx, events.TopicSessionChanged)
	return nil
}

// Restore rebuilds the session after a restart from the stored token. A JWT
// whose exp lies in the past is dropped without a network call. When the
// backend cannot be reached the cached profile is kept and the network error
// is returned alongside it.
func (s *sessionService) Restore(ctx context.Context) (models.Session, error) {
	current, err := s.repo.Load(ctx)
	if err != nil {
		return models.Session{}, storageError("restore", err)
	}
	if !current.Authenticated() {
		return models.Session{}, nil
	}

	if tokenExpired(current.Token, s.now()) {
		s.log.Info(ctx, "stored token expired")
		if err := s.repo.Clear(ctx); err != nil {
			return models.Session{}, storageError("restore", err)
		}
		s.bus.Publish(ctx, events.TopicSessionChanged)
		return models.Session{}, nil
	}

	user, err := s.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, client.ErrAuth) {
			return models.Session{}, nil
		}
		return current, err
	}
	return models.Session{Token: current.Token, User: user}, nil
}

func (s *sessionService) Session(ctx context.Context) (models.Session, error) {
	sess, err := s.repo.Load(ctx)
	if err != nil {
		return models.Session{}, storageError("read session", err)
	}
	return sess, nil
}

func (s *sessionService) Token(ctx context.Context) string {
	token, err := s.repo.Token(ctx)
	if err != nil {
		s.log.Warn(ctx, "failed to read token", "error", err)
		return ""
	}
	return token
}

// HandleUnauthorized tears the session down after a 401, whichever call
// triggered it.
func (s *sessionService) HandleUnauthorized(ctx context.Context) {
	if err := s.repo.Clear(ctx); err != nil {
		s.log.Error(ctx, "failed to clear session after 401", "error", err)
	}
	s.log.Info(ctx, "session rejected by backend")
	s.bus.Publish(ctx, events.TopicSessionChanged)
	s.bus.Publish(ctx, events.TopicSessionExpired)
}

func (s *sessionService) requireToken(ctx context.Context) error {
	token, err := s.repo.Token(ctx)
	if err != nil {
		return storageError("read session", err)
	}
	if token == "" {
		return client.NewError(client.ErrAuth, "Please sign in first")
	}
	return nil
}

// tokenExpired reports whether token is a JWT with an exp claim at or before
// now. Opaque tokens never expire locally.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}
