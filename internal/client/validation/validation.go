// Package validation holds the client-side input rules: the password policy
// shared by every form that collects a new password, email format, and the
// sanitizer applied to user-supplied labels.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/chatdesk/internal/client/models"
)

const (
	// MinPasswordLength is exclusive: a valid password is longer than this.
	MinPasswordLength = 6

	maxSanitizedLength = 1000
	chatNameLength     = 20
	ellipsis           = "..."
)

var (
	emailRe        = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	scriptSchemeRe = regexp.MustCompile(`(?i)javascript:`)
	eventHandlerRe = regexp.MustCompile(`(?i)on\w+=`)
)

// PasswordCheck reports every password rule separately so forms can render
// a checklist, plus the aggregate verdict.
type PasswordCheck struct {
	HasLength bool
	HasUpper  bool
	HasLower  bool
	HasDigit  bool
	IsValid   bool
}

// CheckPassword applies the password policy: longer than six characters with
// at least one ASCII uppercase letter, one lowercase letter and one digit.
func CheckPassword(p string) PasswordCheck {
	var c PasswordCheck
	c.HasLength = utf8.RuneCountInString(p) > MinPasswordLength
	for _, r := range p {
		switch {
		case r >= 'A' && r <= 'Z':
			c.HasUpper = true
		case r >= 'a' && r <= 'z':
			c.HasLower = true
		case r >= '0' && r <= '9':
			c.HasDigit = true
		}
	}
	c.IsValid = c.HasLength && c.HasUpper && c.HasLower && c.HasDigit
	return c
}

// Unmet lists the rules p fails, in checklist order.
func (c PasswordCheck) Unmet() []string {
	var out []string
	if !c.HasLength {
		out = append(out, "more than 6 characters")
	}
	if !c.HasUpper {
		out = append(out, "an uppercase letter")
	}
	if !c.HasLower {
		out = append(out, "a lowercase letter")
	}
	if !c.HasDigit {
		out = append(out, "a digit")
	}
	return out
}

func ValidEmail(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

// Sanitize trims s, strips angle brackets, the javascript: scheme and
// inline event-handler patterns, and caps the result at 1000 characters.
func Sanitize(s string) string {
	return truncate(stripUnsafe(strings.TrimSpace(s)), maxSanitizedLength)
}

// ChatName derives a chat name from the message that started the chat:
// the sanitized text cut to 20 characters, with "..." when it was cut.
// An empty result falls back to "Chat <n>".
func ChatName(message string, n int) string {
	clean := stripUnsafe(strings.TrimSpace(message))
	if clean == "" {
		return models.DefaultChatName(n)
	}
	name := truncate(clean, chatNameLength)
	if name != clean {
		name += ellipsis
	}
	return name
}

func stripUnsafe(s string) string {
	s = strings.NewReplacer("<", "", ">", "").Replace(s)
	s = scriptSchemeRe.ReplaceAllString(s, "")
	return eventHandlerRe.ReplaceAllString(s, "")
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
