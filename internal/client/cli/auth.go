package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/chatdesk/internal/client/client"
	"github.com/dmitrijs2005/chatdesk/internal/client/models"
	"github.com/dmitrijs2005/chatdesk/internal/client/validation"
	"github.com/dmitrijs2005/chatdesk/internal/client/views"
)

var (
	errNotSignedIn     = client.NewError(client.ErrAuth, "Please sign in first")
	errPasswordsDiffer = client.NewError(client.ErrValidation, "Passwords do not match")
)

func displayMessage(err error) string {
	return client.Message(err)
}

// Register starts the sign-up flow: email and an optional full name. The
// account gets a password only after the email is verified.
func (a *App) Register(ctx context.Context, args []string) error {
	email, err := a.argOrPrompt(args, 0, "Enter email")
	if err != nil {
		return err
	}
	fullName, err := getSimpleText(a.reader, "Enter full name (optional)", a.out)
	if err != nil {
		return err
	}

	reg, err := a.session.Register(ctx, email, fullName)
	if err != nil {
		return err
	}

	a.printf("Check %s for a verification link.\n", reg.Email)
	if reg.VerificationToken != "" {
		a.printf("Verification token: %s\n", reg.VerificationToken)
	}
	return nil
}

func (a *App) Verify(ctx context.Context, args []string) error {
	token, err := a.argOrPrompt(args, 0, "Enter verification token")
	if err != nil {
		return err
	}
	msg, err := a.session.VerifyEmail(ctx, token)
	if err != nil {
		return err
	}
	a.printf("%s\n", msg)
	a.printf("Next: setpassword %s\n", strings.TrimSpace(token))
	return nil
}

func (a *App) SetPassword(ctx context.Context, args []string) error {
	token, err := a.argOrPrompt(args, 0, "Enter verification token")
	if err != nil {
		return err
	}
	password, err := a.newPassword()
	if err != nil {
		return err
	}
	msg, err := a.session.SetPassword(ctx, token, password)
	if err != nil {
		return err
	}
	a.printf("%s\n", msg)
	return nil
}

func (a *App) Resend(ctx context.Context, args []string) error {
	email, err := a.argOrPrompt(args, 0, "Enter email")
	if err != nil {
		return err
	}
	res, err := a.session.ResendVerification(ctx, email)
	if err != nil {
		return err
	}
	a.printf("%s\n", res.Message)
	if res.VerificationToken != "" {
		a.printf("Verification token: %s\n", res.VerificationToken)
	}
	return nil
}

func (a *App) Forgot(ctx context.Context, args []string) error {
	email, err := a.argOrPrompt(args, 0, "Enter email")
	if err != nil {
		return err
	}
	res, err := a.session.ForgotPassword(ctx, email)
	if err != nil {
		return err
	}
	a.printf("%s\n", res.Message)
	if res.ResetToken != "" {
		a.printf("Reset token: %s\n", res.ResetToken)
	}
	return nil
}

func (a *App) Reset(ctx context.Context, args []string) error {
	token, err := a.argOrPrompt(args, 0, "Enter reset token")
	if err != nil {
		return err
	}
	password, err := a.newPassword()
	if err != nil {
		return err
	}
	msg, err := a.session.ResetPassword(ctx, token, password)
	if err != nil {
		return err
	}
	a.printf("%s\n", msg)
	return nil
}

func (a *App) Login(ctx context.Context, args []string) error {
	email, err := a.argOrPrompt(args, 0, "Enter email")
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}

	user, err := a.session.Login(ctx, email, password)
	if err != nil {
		return err
	}

	name := user.DisplayName()
	if name == "" {
		name = user.Email
	}
	a.printf("Welcome, %s!\n", name)
	a.Navigate(views.RouteHome)
	return nil
}

func (a *App) Me(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return errNotSignedIn
	}
	u, err := a.session.CurrentUser(ctx)
	if err != nil {
		return err
	}
	a.printUser(u)
	return nil
}

// Profile edits the profile. An empty answer keeps a field, "-" clears a
// name.
func (a *App) Profile(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return errNotSignedIn
	}

	var update models.ProfileUpdate
	for _, f := range []struct {
		prompt string
		dst    **string
		clear  bool
	}{
		{"First name (empty keeps, - clears)", &update.FirstName, true},
		{"Last name (empty keeps, - clears)", &update.LastName, true},
		{"Email (empty keeps)", &update.Email, false},
	} {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		switch {
		case v == "":
		case v == "-" && f.clear:
			empty := ""
			*f.dst = &empty
		default:
			val := v
			*f.dst = &val
		}
	}

	u, err := a.session.UpdateProfile(ctx, update)
	if err != nil {
		return err
	}
	a.printf("Profile updated.\n")
	a.printUser(u)
	return nil
}

func (a *App) Passwd(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return errNotSignedIn
	}
	current, err := getPassword(a.reader, "Current password", a.out)
	if err != nil {
		return err
	}
	next, err := a.newPassword()
	if err != nil {
		return err
	}
	msg, err := a.session.ChangePassword(ctx, current, next)
	if err != nil {
		return err
	}
	a.printf("%s\n", msg)
	return nil
}

func (a *App) Logout(ctx context.Context, args []string) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	a.Navigate(views.RouteAuth)
	a.printf("Signed out.\n")
	return nil
}

// newPassword asks for a new password twice and prints the policy
// checklist when it is not met.
func (a *App) newPassword() (string, error) {
	password, err := getPassword(a.reader, "New password", a.out)
	if err != nil {
		return "", err
	}
	check := validation.CheckPassword(password)
	if !check.IsValid {
		a.printChecklist(check)
	}
	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return "", err
	}
	if confirm != password {
		return "", errPasswordsDiffer
	}
	return password, nil
}

func (a *App) printChecklist(c validation.PasswordCheck) {
	mark := func(ok bool) string {
		if ok {
			return "[x]"
		}
		return "[ ]"
	}
	a.printf("%s more than %d characters\n", mark(c.HasLength), validation.MinPasswordLength)
	a.printf("%s an uppercase letter\n", mark(c.HasUpper))
	a.printf("%s a lowercase letter\n", mark(c.HasLower))
	a.printf("%s a digit\n", mark(c.HasDigit))
}

func (a *App) printUser(u *models.User) {
	a.printf("ID:        %d\n", u.ID)
	a.printf("Email:     %s\n", u.Email)
	a.printf("Name:      %s\n", u.DisplayName())
	a.printf("Verified:  %t\n", u.EmailVerified)
	if u.Role != "" {
		a.printf("Role:      %s\n", u.Role)
	}
}
