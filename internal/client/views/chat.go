package views

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/chatdesk/internal/client/events"
	"github.com/dmitrijs2005/chatdesk/internal/client/models"
	"github.com/dmitrijs2005/chatdesk/internal/client/services"
	"github.com/dmitrijs2005/chatdesk/internal/logging"
)

// ChatDetail is the screen of one open chat. It follows the chat's name and
// leaves for the landing screen once the chat is gone.
type ChatDetail struct {
	id     string
	roster services.RosterService
	bus    events.Bus
	nav    Navigator
	log    logging.Logger

	mu      sync.RWMutex
	chat    models.Chat
	present bool
	sub     *subscription
}

func NewChatDetail(id string, roster services.RosterService, bus events.Bus, nav Navigator, log logging.Logger) *ChatDetail {
	return &ChatDetail{id: id, roster: roster, bus: bus, nav: nav, log: log.With("chat_id", id)}
}

func (c *ChatDetail) ID() string { return c.id }

func (c *ChatDetail) Mount(ctx context.Context) error {
	c.mu.Lock()
	mounted := c.sub != nil
	c.mu.Unlock()
	if mounted {
		return nil
	}

	if err := c.Refresh(ctx); err != nil {
		return err
	}

	sub := watch(ctx, c.bus, events.TopicRosterChanged, func(ctx context.Context) {
		if err := c.Refresh(ctx); err != nil {
			c.log.Warn(ctx, "chat resync failed", "error", err)
		}
	})

	c.mu.Lock()
	c.sub = sub
	c.mu.Unlock()
	return nil
}

func (c *ChatDetail) Unmount() {
	c.mu.Lock()
	sub := c.sub
	c.sub = nil
	c.mu.Unlock()
	sub.stop()
}

// Refresh re-reads the chat. When it no longer exists and this chat is the
// open screen, the view navigates home.
func (c *ChatDetail) Refresh(ctx context.Context) error {
	chat, ok, err := c.roster.Get(ctx, c.id)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.chat, c.present = chat, ok
	c.mu.Unlock()

	if !ok && c.nav.Current() == ChatRoute(c.id) {
		c.log.Info(ctx, "open chat removed")
		c.nav.Navigate(RouteHome)
	}
	return nil
}

// Title is the chat's name, or the default name while it is unknown.
func (c *ChatDetail) Title() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.present {
		return c.chat.Name
	}
	if n, ok := models.ChatNumber(c.id); ok {
		return models.DefaultChatName(n)
	}
	return c.id
}

func (c *ChatDetail) Present() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.present
}

func (c *ChatDetail) Rename(ctx context.Context, name string) error {
	if err := c.roster.Rename(ctx, c.id, name); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// Remove deletes this chat and navigates home.
func (c *ChatDetail) Remove(ctx context.Context) error {
	if err := c.roster.Remove(ctx, c.id); err != nil {
		return err
	}
	return c.Refresh(ctx)
}
