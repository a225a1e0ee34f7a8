package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/chatdesk/internal/client/client"
	"github.com/dmitrijs2005/chatdesk/internal/client/config"
	"github.com/dmitrijs2005/chatdesk/internal/client/events"
	"github.com/dmitrijs2005/chatdesk/internal/client/models"
	"github.com/dmitrijs2005/chatdesk/internal/client/repositories/session"
	"github.com/dmitrijs2005/chatdesk/internal/client/services"
	"github.com/dmitrijs2005/chatdesk/internal/client/views"
	"github.com/dmitrijs2005/chatdesk/internal/logging"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	session services.SessionService
	roster  services.RosterService
	bus     events.Bus
	storage *storage
	reader  *bufio.Reader
	out     io.Writer

	mu      sync.Mutex
	ctx     context.Context
	route   views.Route
	sidebar *views.Sidebar
	detail  *views.ChatDetail
	landing *views.Landing
	stopExp func()
}

// NewApp opens the configured store and wires the API client, the services
// and the views around it.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	st, err := openStorage(ctx, c, log)
	if err != nil {
		log.Error(ctx, "error opening storage", "store", c.StoreBackend, "error", err)
		return nil, err
	}

	apiClient := client.NewHTTPClient(c.APIBaseURL, c.APITimeout, client.WithLogger(log.With("component", "api")))
	ss := services.NewSessionService(apiClient, session.NewKVRepository(st.store), st.bus, log.With("component", "session"))
	apiClient.SetTokenSource(ss.Token)
	apiClient.OnUnauthorized(ss.HandleUnauthorized)

	rs := services.NewRosterService(st.store, st.bus, log.With("component", "roster"))

	a := newApp(ss, rs, st.bus, log, bufio.NewReader(os.Stdin), os.Stdout)
	a.config = c
	a.storage = st
	return a, nil
}

func newApp(ss services.SessionService, rs services.RosterService, bus events.Bus, log logging.Logger, r *bufio.Reader, w io.Writer) *App {
	a := &App{
		session: ss,
		roster:  rs,
		bus:     bus,
		log:     log,
		reader:  r,
		out:     w,
		ctx:     context.Background(),
		route:   views.RouteAuth,
	}
	a.landing = views.NewLanding(rs, a)
	return a
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

// Close unmounts the views and releases the store.
func (a *App) Close() error {
	a.mu.Lock()
	sidebar, detail, stopExp := a.sidebar, a.detail, a.stopExp
	a.sidebar, a.detail, a.stopExp = nil, nil, nil
	a.mu.Unlock()

	if stopExp != nil {
		stopExp()
	}
	if detail != nil {
		detail.Unmount()
	}
	if sidebar != nil {
		sidebar.Unmount()
	}
	if a.storage != nil {
		return a.storage.Close()
	}
	return nil
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) isLoggedIn() bool {
	return a.Current() != views.RouteAuth
}

// Current implements views.Navigator.
func (a *App) Current() views.Route {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.route
}

// Navigate implements views.Navigator. Leaving /auth mounts the sidebar,
// entering it unmounts every view. A /chat/<id> route mounts the chat view.
func (a *App) Navigate(to views.Route) {
	a.mu.Lock()
	from := a.route
	a.route = to
	ctx := a.ctx
	detail := a.detail
	a.detail = nil
	var sidebar *views.Sidebar
	if to == views.RouteAuth {
		sidebar = a.sidebar
		a.sidebar = nil
	}
	a.mu.Unlock()

	if detail != nil {
		detail.Unmount()
	}
	if sidebar != nil {
		sidebar.Unmount()
	}
	if from != to {
		a.log.Debug(ctx, "navigate", "from", string(from), "to", string(to))
	}

	if to != views.RouteAuth {
		a.ensureSidebar(ctx)
	}

	id, ok := to.ChatID()
	if !ok {
		return
	}
	d := views.NewChatDetail(id, a.roster, a.bus, a, a.log)
	a.mu.Lock()
	a.detail = d
	a.mu.Unlock()

	if err := d.Mount(ctx); err != nil {
		a.printf("Error: %s\n", client.Message(err))
	}

	// Mounting an unknown chat navigates away again.
	a.mu.Lock()
	stale := a.detail != d
	a.mu.Unlock()
	if stale {
		d.Unmount()
	}
}

func (a *App) ensureSidebar(ctx context.Context) {
	a.mu.Lock()
	if a.sidebar != nil {
		a.mu.Unlock()
		return
	}
	sb := views.NewSidebar(a.roster, a.bus, a, a.log)
	a.sidebar = sb
	a.mu.Unlock()

	if err := sb.Mount(ctx); err != nil {
		a.printf("Error: %s\n", client.Message(err))
	}
}

func (a *App) currentSidebar() *views.Sidebar {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sidebar
}

func (a *App) currentDetail() *views.ChatDetail {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.detail
}

// watchSessionExpiry sends the console back to /auth whenever the backend
// rejects the session.
func (a *App) watchSessionExpiry() {
	ch, unsub := a.bus.Subscribe(events.TopicSessionExpired)
	a.mu.Lock()
	a.stopExp = unsub
	a.mu.Unlock()

	go func() {
		for range ch {
			if a.Current() == views.RouteAuth {
				continue
			}
			a.printf("\nYour session has expired. Please sign in again.\n")
			a.Navigate(views.RouteAuth)
		}
	}()
}

func (a *App) currentUser() *models.User {
	s, err := a.session.Session(a.ctx)
	if err != nil {
		return nil
	}
	return s.User
}
