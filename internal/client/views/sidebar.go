package views

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/chatdesk/internal/client/events"
	"github.com/dmitrijs2005/chatdesk/internal/client/models"
	"github.com/dmitrijs2005/chatdesk/internal/client/services"
	"github.com/dmitrijs2005/chatdesk/internal/logging"
)

// Sidebar lists the chats and owns rename and delete.
type Sidebar struct {
	roster services.RosterService
	bus    events.Bus
	nav    Navigator
	log    logging.Logger

	mu    sync.RWMutex
	chats models.Roster
	sub   *subscription
	// onChange is called after every resync.
	onChange func(models.Roster)
}

func NewSidebar(roster services.RosterService, bus events.Bus, nav Navigator, log logging.Logger) *Sidebar {
	return &Sidebar{roster: roster, bus: bus, nav: nav, log: log}
}

// OnChange registers a callback run after the sidebar re-reads the roster
// because of a notification.
func (s *Sidebar) OnChange(fn func(models.Roster)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Mount reads the roster and starts following roster notifications.
// Mounting twice is a no-op.
func (s *Sidebar) Mount(ctx context.Context) error {
	s.mu.Lock()
	mounted := s.sub != nil
	s.mu.Unlock()
	if mounted {
		return nil
	}

	if err := s.Refresh(ctx); err != nil {
		return err
	}

	sub := watch(ctx, s.bus, events.TopicRosterChanged, func(ctx context.Context) {
		if err := s.Refresh(ctx); err != nil {
			s.log.Warn(ctx, "sidebar resync failed", "error", err)
			return
		}
		s.mu.RLock()
		fn, chats := s.onChange, s.chats.Clone()
		s.mu.RUnlock()
		if fn != nil {
			fn(chats)
		}
	})

	s.mu.Lock()
	s.sub = sub
	s.mu.Unlock()
	return nil
}

func (s *Sidebar) Unmount() {
	s.mu.Lock()
	sub := s.sub
	s.sub = nil
	s.mu.Unlock()
	sub.stop()
}

// Refresh replaces the sidebar's copy of the roster with the stored one.
func (s *Sidebar) Refresh(ctx context.Context) error {
	r, err := s.roster.List(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.chats = r
	s.mu.Unlock()
	return nil
}

// Chats returns the sidebar's current copy of the roster.
func (s *Sidebar) Chats() models.Roster {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chats.Clone()
}

func (s *Sidebar) Rename(ctx context.Context, id, name string) error {
	if err := s.roster.Rename(ctx, id, name); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Remove deletes the chat and leaves its screen when it is the one open.
func (s *Sidebar) Remove(ctx context.Context, id string) error {
	if err := s.roster.Remove(ctx, id); err != nil {
		return err
	}
	if s.nav.Current() == ChatRoute(id) {
		s.nav.Navigate(RouteHome)
	}
	return s.Refresh(ctx)
}
