package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/chatdesk/internal/client/models"
	"github.com/dmitrijs2005/chatdesk/internal/logging"
	"github.com/google/uuid"
)

const (
	RequestIDHeaderName = "X-Request-ID"
	DefaultTimeout      = 30 * time.Second

	maxErrorBody = 1 << 20
)

// endpoint kinds decide how a rejected status is classified.
type endpointKind int

const (
	plainEndpoint endpointKind = iota
	possessionTokenEndpoint
)

type HTTPClient struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	log     logging.Logger

	mu             sync.RWMutex
	tokens         TokenSource
	onUnauthorized UnauthorizedHook
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *HTTPClient) { c.tokens = ts }
}

func NewHTTPClient(baseURL string, timeout time.Duration, opts ...Option) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{},
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTokenSource installs the bearer token source after construction.
func (c *HTTPClient) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = ts
}

// OnUnauthorized installs the hook called after every 401 response.
func (c *HTTPClient) OnUnauthorized(h UnauthorizedHook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = h
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	var out models.LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out, plainEndpoint); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Register(ctx context.Context, email, fullName string) (*models.Registration, error) {
	var out models.Registration
	body := map[string]string{"email": email, "fullName": fullName}
	if err := c.do(ctx, http.MethodPost, "/users/register", body, &out, plainEndpoint); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) VerifyEmail(ctx context.Context, token string) (*models.Message, error) {
	var out models.Message
	body := map[string]string{"token": token}
	if err := c.do(ctx, http.MethodPost, "/auth/verify-email", body, &out, possessionTokenEndpoint); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SetPassword(ctx context.Context, token, password string) (*models.Message, error) {
	var out models.Message
	body := map[string]string{"token": token, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/set-password", body, &out, possessionTokenEndpoint); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ResendVerification(ctx context.Context, email string) (*models.VerificationResend, error) {
	var out models.VerificationResend
	body := map[string]string{"email": email}
	if err := c.do(ctx, http.MethodPost, "/auth/resend-verification", body, &out, plainEndpoint); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) (*models.PasswordReset, error) {
	var out models.PasswordReset
	body := map[string]string{"email": email}
	if err := c.do(ctx, http.MethodPost, "/auth/forgot-password", body, &out, plainEndpoint); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ResetPassword(ctx context.Context, token, password string) (*models.Message, error) {
	var out models.Message
	body := map[string]string{"token": token, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/reset-password", body, &out, possessionTokenEndpoint); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out, plainEndpoint); err != nil {
		return nil, err
	}
	out = out.WithFullName()
	return &out, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	payload, ok := update.Payload()
	if !ok {
		return nil, NewError(ErrValidation, "At least one field (firstName, lastName, or email) must be provided")
	}
	var out models.User
	if err := c.do(ctx, http.MethodPut, "/users/me", payload, &out, plainEndpoint); err != nil {
		return nil, err
	}
	out = out.WithFullName()
	return &out, nil
}

func (c *HTTPClient) ChangePassword(ctx context.Context, oldPassword, newPassword string) (*models.Message, error) {
	var out models.Message
	body := map[string]string{"old_password": oldPassword, "new_password": newPassword}
	if err := c.do(ctx, http.MethodPost, "/credentials/change-password", body, &out, plainEndpoint); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any, kind endpointKind) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &Error{Kind: ErrValidation, Message: FallbackErrorMessage, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(b)
	}

	// The id also tags every log line written under ctx, the unauthorized
	// hook's included.
	requestID := uuid.NewString()
	ctx = logging.ContextWith(ctx, "request_id", requestID)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Kind: ErrNetwork, Message: NetworkErrorMessage, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeaderName, requestID)

	c.mu.RLock()
	tokens, hook := c.tokens, c.onUnauthorized
	c.mu.RUnlock()

	authenticated := false
	if tokens != nil {
		if token := tokens(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
			authenticated = true
		}
	}

	log := c.log.With("method", method, "path", path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err, "elapsed", time.Since(start))
		return &Error{Kind: ErrNetwork, Message: NetworkErrorMessage, Err: err, Authenticated: authenticated}
	}
	defer resp.Body.Close()

	log.Debug(ctx, "request done", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &Error{
			Kind:          classify(resp.StatusCode, kind),
			Status:        resp.StatusCode,
			Message:       ErrorMessage(raw),
			Authenticated: authenticated,
		}
		if resp.StatusCode == http.StatusUnauthorized && hook != nil {
			hook(context.WithoutCancel(ctx))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
			log.Warn(ctx, "reading response failed", "error", err, "elapsed", time.Since(start))
			return &Error{Kind: ErrNetwork, Status: resp.StatusCode, Message: NetworkErrorMessage, Err: err, Authenticated: authenticated}
		}
		return &Error{Kind: ErrBackend, Status: resp.StatusCode, Message: FallbackErrorMessage, Err: fmt.Errorf("decode response: %w", err), Authenticated: authenticated}
	}
	return nil
}

func classify(status int, kind endpointKind) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrAuth
	case kind == possessionTokenEndpoint &&
		(status == http.StatusBadRequest || status == http.StatusNotFound || status == http.StatusGone):
		return ErrToken
	default:
		return ErrBackend
	}
}
