// Package client contains the console's transport to the chatbot-management
// backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     the auth, registration, profile and credential endpoints.
//  2. A concrete REST implementation (see HTTPClient) that attaches the bearer
//     token from a TokenSource, tags every request with an X-Request-ID,
//     enforces one timeout per call and reports every 401 to an
//     UnauthorizedHook.
//  3. Error normalization (see ErrorMessage) that reduces the backend's error
//     bodies to a single display string.
//
// # Error Handling
//
// Every failure is an *Error whose kind can be matched with errors.Is:
// ErrValidation, ErrAuth, ErrToken, ErrNetwork, ErrBackend. A 401 on a
// request that carried a token additionally matches ErrSessionExpired.
// Raw transport errors are kept as the wrapped cause and never returned bare.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation on top of the per-call timeout.
package client
