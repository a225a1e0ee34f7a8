package views

import (
	"context"

	"github.com/dmitrijs2005/chatdesk/internal/client/models"
	"github.com/dmitrijs2005/chatdesk/internal/client/services"
)

// Landing is the home screen where new chats are started.
type Landing struct {
	roster services.RosterService
	nav    Navigator
}

func NewLanding(roster services.RosterService, nav Navigator) *Landing {
	return &Landing{roster: roster, nav: nav}
}

// Mount reads the roster once, seeding it on first use.
func (l *Landing) Mount(ctx context.Context) (models.Roster, error) {
	return l.roster.List(ctx)
}

// Start creates a chat named after its first message and opens it.
func (l *Landing) Start(ctx context.Context, message string) (models.Chat, error) {
	chat, err := l.roster.Create(ctx, message)
	if err != nil {
		return models.Chat{}, err
	}
	l.nav.Navigate(ChatRoute(chat.ID))
	return chat, nil
}
