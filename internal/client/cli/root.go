package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/chatdesk/internal/client/client"
	"github.com/dmitrijs2005/chatdesk/internal/client/views"
)

// getStatus renders the prompt status: current route and signed-in user.
func (a *App) getStatus() string {
	s := string(a.Current())
	if u := a.currentUser(); u != nil && a.isLoggedIn() {
		name := u.DisplayName()
		if name == "" {
			name = u.Email
		}
		s = name + " " + s
	}
	return fmt.Sprintf("(%s)", s)
}

// Root restores the previous session, if any, and runs the REPL on stdin
// until the user exits.
func (a *App) Root(ctx context.Context) {
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()

	a.printf("Welcome to chatdesk (type 'help' for commands)\n")
	a.watchSessionExpiry()
	a.restore(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) restore(ctx context.Context) {
	s, err := a.session.Restore(ctx)
	if err != nil {
		if !errors.Is(err, client.ErrNetwork) {
			a.printf("Error: %s\n", client.Message(err))
			return
		}
		a.printf("Backend unreachable, using cached profile.\n")
	}
	if !s.Authenticated() {
		a.Navigate(views.RouteAuth)
		return
	}
	if s.User != nil {
		a.printf("Signed in as %s\n", s.User.Email)
	}
	a.Navigate(views.RouteHome)
}
