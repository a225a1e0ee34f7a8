package models

import "strings"

// User is the cached profile of the signed-in account, as returned by
// GET /auth/me and the login response.
type User struct {
	ID            int64  `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	FullName      string `json:"fullName,omitempty"`
	EmailVerified bool   `json:"emailVerified"`
	IsApproved    bool   `json:"isApproved,omitempty"`
	Role          string `json:"role,omitempty"`
}

// DisplayName joins first and last name with a space, dropping empty parts.
func (u User) DisplayName() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{u.FirstName, u.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// WithFullName returns a copy of u with FullName derived from the name parts.
func (u User) WithFullName() User {
	u.FullName = u.DisplayName()
	return u
}

// Session pairs the bearer token with the cached profile. User is nil
// whenever Token is empty: a profile without a token is not authoritative.
type Session struct {
	Token string
	User  *User
}

func (s Session) Authenticated() bool {
	return s.Token != ""
}

// LoginResult is the body of POST /auth/login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user,omitempty"`
}

// Registration is returned by POST /users/register. VerificationToken is only
// filled in by non-production backends.
type Registration struct {
	User
	VerificationToken string `json:"verificationToken,omitempty"`
}

// VerificationResend is the body of POST /auth/resend-verification.
type VerificationResend struct {
	Message           string `json:"message"`
	Success           bool   `json:"success"`
	VerificationToken string `json:"verificationToken,omitempty"`
}

// PasswordReset is the body of POST /auth/forgot-password.
type PasswordReset struct {
	Message    string `json:"message"`
	Success    bool   `json:"success"`
	ResetToken string `json:"resetToken,omitempty"`
}

// Message is the generic {message, success} acknowledgement.
type Message struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// ProfileUpdate is a partial update of the current profile. Nil fields are
// left untouched.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// Payload builds the PUT /users/me body: empty first/last names are sent as
// null, an empty email is omitted. ok is false when nothing would be sent.
func (p ProfileUpdate) Payload() (payload map[string]any, ok bool) {
	payload = make(map[string]any, 3)
	for key, v := range map[string]*string{"firstName": p.FirstName, "lastName": p.LastName} {
		if v == nil {
			continue
		}
		if *v == "" {
			payload[key] = nil
		} else {
			payload[key] = *v
		}
	}
	if p.Email != nil && *p.Email != "" {
		payload["email"] = *p.Email
	}
	return payload, len(payload) > 0
}
