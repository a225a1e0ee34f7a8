package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/dmitrijs2005/chatdesk/internal/client/client"
	"github.com/dmitrijs2005/chatdesk/internal/client/models"
	"github.com/dmitrijs2005/chatdesk/internal/client/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubInputs replaces the prompt helpers with queues of canned answers.
func stubInputs(t *testing.T, texts []string, passwords []string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(texts) == 0 {
			return "", io.EOF
		}
		v := texts[0]
		texts = texts[1:]
		return v, nil
	}
	getPassword = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(passwords) == 0 {
			return "", io.EOF
		}
		v := passwords[0]
		passwords = passwords[1:]
		return v, nil
	}
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

func TestLogin_SuccessNavigatesHome(t *testing.T) {
	ta := newTestApp(t, "")
	ta.ss.user = &models.User{ID: 1, Email: "a@b.co", FirstName: "Ann"}
	stubInputs(t, nil, []string{"Secret123"})

	require.NoError(t, ta.Login(context.Background(), []string{"a@b.co"}))

	assert.Equal(t, []string{"a@b.co", "Secret123"}, ta.ss.lastArgs)
	assert.Equal(t, views.RouteHome, ta.Current())
	assert.Contains(t, ta.output(), "Welcome, Ann!")
	assert.NotNil(t, ta.currentSidebar())
}

func TestLogin_PromptsForEmail(t *testing.T) {
	ta := newTestApp(t, "")
	ta.ss.user = &models.User{Email: "a@b.co"}
	stubInputs(t, []string{"a@b.co"}, []string{"Secret123"})

	require.NoError(t, ta.Login(context.Background(), nil))
	assert.Contains(t, ta.output(), "Welcome, a@b.co!")
}

func TestLogin_FailureStaysOnAuth(t *testing.T) {
	ta := newTestApp(t, "")
	ta.ss.err = &client.Error{Kind: client.ErrAuth, Status: 401, Message: "Incorrect email or password"}
	stubInputs(t, nil, []string{"bad"})

	err := ta.Login(context.Background(), []string{"a@b.co"})

	require.ErrorIs(t, err, client.ErrAuth)
	assert.Equal(t, "Incorrect email or password", displayMessage(err))
	assert.Equal(t, views.RouteAuth, ta.Current())
}

func TestRegister_PrintsVerificationToken(t *testing.T) {
	ta := newTestApp(t, "")
	ta.ss.reg = &models.Registration{User: models.User{Email: "a@b.co"}, VerificationToken: "vt-1"}
	stubInputs(t, []string{"a@b.co", "Ann Lee"}, nil)

	require.NoError(t, ta.Register(context.Background(), nil))

	assert.Equal(t, []string{"a@b.co", "Ann Lee"}, ta.ss.lastArgs)
	assert.Contains(t, ta.output(), "Check a@b.co for a verification link.")
	assert.Contains(t, ta.output(), "Verification token: vt-1")
	assert.Equal(t, views.RouteAuth, ta.Current(), "registration never signs in")
}

func TestVerify_SuggestsNextStep(t *testing.T) {
	ta := newTestApp(t, "")
	ta.ss.msg = "Email verified"

	require.NoError(t, ta.Verify(context.Background(), []string{"vt-1"}))
	assert.Contains(t, ta.output(), "Email verified")
	assert.Contains(t, ta.output(), "Next: setpassword vt-1")
}

func TestSetPassword_MismatchSkipsBackend(t *testing.T) {
	ta := newTestApp(t, "")
	stubInputs(t, nil, []string{"Secret123", "Secret124"})

	err := ta.SetPassword(context.Background(), []string{"vt-1"})

	require.ErrorIs(t, err, client.ErrValidation)
	assert.Equal(t, "Passwords do not match", displayMessage(err))
	assert.Empty(t, ta.ss.Calls())
}

func TestSetPassword_WeakPasswordPrintsChecklist(t *testing.T) {
	ta := newTestApp(t, "")
	ta.ss.err = client.NewError(client.ErrValidation, "Password must contain an uppercase letter")
	stubInputs(t, nil, []string{"secret123", "secret123"})

	err := ta.SetPassword(context.Background(), []string{"vt-1"})

	require.ErrorIs(t, err, client.ErrValidation)
	assert.Contains(t, ta.output(), "[ ] an uppercase letter")
	assert.Contains(t, ta.output(), "[x] a digit")
}

func TestReset_Success(t *testing.T) {
	ta := newTestApp(t, "")
	ta.ss.msg = "Password has been reset"
	stubInputs(t, nil, []string{"Secret123", "Secret123"})

	require.NoError(t, ta.Reset(context.Background(), []string{"rt-1"}))
	assert.Equal(t, []string{"rt-1", "Secret123"}, ta.ss.lastArgs)
	assert.Contains(t, ta.output(), "Password has been reset")
}

func TestForgotAndResend_PrintDevelopmentTokens(t *testing.T) {
	ta := newTestApp(t, "")
	ta.ss.reset = &models.PasswordReset{Message: "Sent", ResetToken: "rt-9"}
	ta.ss.resend = &models.VerificationResend{Message: "Resent", VerificationToken: "vt-9"}

	require.NoError(t, ta.Forgot(context.Background(), []string{"a@b.co"}))
	require.NoError(t, ta.Resend(context.Background(), []string{"a@b.co"}))

	assert.Contains(t, ta.output(), "Reset token: rt-9")
	assert.Contains(t, ta.output(), "Verification token: vt-9")
}

func TestSignedInCommands_RequireSession(t *testing.T) {
	ta := newTestApp(t, "")
	ctx := context.Background()

	for name, fn := range map[string]func(context.Context, []string) error{
		"me":      ta.Me,
		"profile": ta.Profile,
		"passwd":  ta.Passwd,
		"chats":   ta.Chats,
		"new":     ta.New,
		"open":    ta.Open,
		"rename":  ta.Rename,
		"rm":      ta.Remove,
		"close":   ta.CloseChat,
	} {
		t.Run(name, func(t *testing.T) {
			err := fn(ctx, []string{"chat-1"})
			require.ErrorIs(t, err, client.ErrAuth)
			assert.Equal(t, "Please sign in first", displayMessage(err))
		})
	}
	assert.Empty(t, ta.ss.Calls())
}

func TestProfile_MapsAnswersToUpdate(t *testing.T) {
	ta := newTestApp(t, "")
	ta.Navigate(views.RouteHome)
	ta.ss.user = &models.User{Email: "new@b.co", LastName: "Lee"}
	stubInputs(t, []string{"-", "", "new@b.co"}, nil)

	require.NoError(t, ta.Profile(context.Background(), nil))

	u := ta.ss.update
	require.NotNil(t, u.FirstName)
	assert.Equal(t, "", *u.FirstName, "- clears the first name")
	assert.Nil(t, u.LastName, "empty answer keeps the last name")
	require.NotNil(t, u.Email)
	assert.Equal(t, "new@b.co", *u.Email)
	assert.Contains(t, ta.output(), "Profile updated.")
}

func TestPasswd_SendsOldAndNew(t *testing.T) {
	ta := newTestApp(t, "")
	ta.Navigate(views.RouteHome)
	ta.ss.msg = "Password changed"
	stubInputs(t, nil, []string{"Old12345", "New12345", "New12345"})

	require.NoError(t, ta.Passwd(context.Background(), nil))
	assert.Equal(t, []string{"Old12345", "New12345"}, ta.ss.lastArgs)
}

func TestLogout_ReturnsToAuth(t *testing.T) {
	ta := newTestApp(t, "")
	ta.Navigate(views.ChatRoute("chat-1"))

	require.NoError(t, ta.Logout(context.Background(), nil))

	assert.Equal(t, views.RouteAuth, ta.Current())
	assert.Nil(t, ta.currentSidebar())
	assert.Nil(t, ta.currentDetail())
}

func TestMe_PrintsProfile(t *testing.T) {
	ta := newTestApp(t, "")
	ta.Navigate(views.RouteHome)
	ta.ss.user = &models.User{ID: 7, Email: "a@b.co", FirstName: "Ann", LastName: "Lee", EmailVerified: true}

	require.NoError(t, ta.Me(context.Background(), nil))
	assert.Contains(t, ta.output(), "Name:      Ann Lee")
	assert.Contains(t, ta.output(), "Verified:  true")
}

func TestMe_ErrorIsReturned(t *testing.T) {
	ta := newTestApp(t, "")
	ta.Navigate(views.RouteHome)
	ta.ss.err = errors.New("boom")

	require.Error(t, ta.Me(context.Background(), nil))
}
