package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/chatdesk/internal/client/client"
	"github.com/dmitrijs2005/chatdesk/internal/client/views"
)

var errChatNotFound = client.NewError(client.ErrValidation, "Chat not found")

func usage(text string) error {
	return client.NewError(client.ErrValidation, "Usage: "+text)
}

// Chats prints the sidebar's roster; the open chat is marked with '*'.
func (a *App) Chats(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return errNotSignedIn
	}
	sb := a.currentSidebar()
	if sb == nil {
		return errNotSignedIn
	}
	chats := sb.Chats()
	if len(chats) == 0 {
		a.printf("No chats yet. Start one with: new <message>\n")
		return nil
	}
	openID, _ := a.Current().ChatID()
	for _, c := range chats {
		marker := " "
		if c.ID == openID {
			marker = "*"
		}
		a.printf("%s %-10s %s\n", marker, c.ID, c.Name)
	}
	return nil
}

// New starts a chat from its first message and opens it.
func (a *App) New(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return errNotSignedIn
	}
	message := strings.Join(args, " ")
	if message == "" {
		var err error
		message, err = getSimpleText(a.reader, "First message (optional)", a.out)
		if err != nil {
			return err
		}
	}
	chat, err := a.landing.Start(ctx, message)
	if err != nil {
		return err
	}
	a.printf("Started %s (%s)\n", chat.Name, chat.ID)
	return nil
}

func (a *App) Open(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return errNotSignedIn
	}
	if len(args) == 0 {
		return usage("open <chat-id>")
	}
	_, ok, err := a.roster.Get(ctx, args[0])
	if err != nil {
		return err
	}
	if !ok {
		return errChatNotFound
	}
	a.Navigate(views.ChatRoute(args[0]))
	if d := a.currentDetail(); d != nil {
		a.printf("Opened %s\n", d.Title())
	}
	return nil
}

func (a *App) Rename(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return errNotSignedIn
	}
	if len(args) == 0 {
		return usage("rename <chat-id> <new name>")
	}
	id := args[0]
	if _, ok, err := a.roster.Get(ctx, id); err != nil {
		return err
	} else if !ok {
		return errChatNotFound
	}

	name := strings.Join(args[1:], " ")
	if name == "" {
		var err error
		name, err = getSimpleText(a.reader, "New name", a.out)
		if err != nil {
			return err
		}
	}
	sb := a.currentSidebar()
	if sb == nil {
		return errNotSignedIn
	}
	return sb.Rename(ctx, id, name)
}

// Remove deletes a chat; without an id it deletes the open one.
func (a *App) Remove(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return errNotSignedIn
	}
	var id string
	if len(args) > 0 {
		id = args[0]
	} else if open, ok := a.Current().ChatID(); ok {
		id = open
	} else {
		return usage("rm <chat-id>")
	}

	sb := a.currentSidebar()
	if sb == nil {
		return errNotSignedIn
	}
	if err := sb.Remove(ctx, id); err != nil {
		return err
	}
	a.printf("Deleted %s\n", id)
	return nil
}

func (a *App) CloseChat(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return errNotSignedIn
	}
	a.Navigate(views.RouteHome)
	return nil
}
