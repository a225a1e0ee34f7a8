package cli

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/chatdesk/internal/client/client"
	"github.com/dmitrijs2005/chatdesk/internal/client/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedIn(t *testing.T) *testApp {
	t.Helper()
	ta := newTestApp(t, "")
	ta.Navigate(views.RouteHome)
	return ta
}

func TestChats_ListsRosterAndMarksOpenChat(t *testing.T) {
	ta := signedIn(t)
	ta.Navigate(views.ChatRoute("chat-2"))

	require.NoError(t, ta.Chats(context.Background(), nil))

	out := ta.output()
	assert.Contains(t, out, "  chat-1     Chat 1\n")
	assert.Contains(t, out, "* chat-2     Chat 2\n")
}

func TestChats_EmptyRoster(t *testing.T) {
	ta := newTestApp(t, "")
	require.NoError(t, ta.store.Set(context.Background(), "chats", "[]"))
	ta.Navigate(views.RouteHome)

	require.NoError(t, ta.Chats(context.Background(), nil))
	assert.Contains(t, ta.output(), "No chats yet.")
}

func TestNew_CreatesAndOpensChat(t *testing.T) {
	ta := signedIn(t)

	require.NoError(t, ta.New(context.Background(), []string{"hello", "there"}))

	assert.Equal(t, views.ChatRoute("chat-4"), ta.Current())
	assert.Contains(t, ta.output(), "Started hello there (chat-4)")
	d := ta.currentDetail()
	require.NotNil(t, d)
	assert.Equal(t, "hello there", d.Title())

	require.Eventually(t, func() bool {
		return len(ta.currentSidebar().Chats()) == 4
	}, eventually, 10*time.Millisecond)
}

func TestNew_PromptsWhenNoMessage(t *testing.T) {
	ta := signedIn(t)
	stubInputs(t, []string{""}, nil)

	require.NoError(t, ta.New(context.Background(), nil))
	assert.Contains(t, ta.output(), "Started Chat 4 (chat-4)")
}

func TestOpen(t *testing.T) {
	ta := signedIn(t)

	require.NoError(t, ta.Open(context.Background(), []string{"chat-3"}))
	assert.Equal(t, views.ChatRoute("chat-3"), ta.Current())
	assert.Contains(t, ta.output(), "Opened Chat 3")

	err := ta.Open(context.Background(), []string{"chat-42"})
	require.ErrorIs(t, err, client.ErrValidation)
	assert.Equal(t, "Chat not found", displayMessage(err))
	assert.Equal(t, views.ChatRoute("chat-3"), ta.Current())

	require.ErrorIs(t, ta.Open(context.Background(), nil), client.ErrValidation)
}

func TestRename_UpdatesOpenChatTitle(t *testing.T) {
	ta := signedIn(t)
	ta.Navigate(views.ChatRoute("chat-1"))

	require.NoError(t, ta.Rename(context.Background(), []string{"chat-1", "Support", "desk"}))

	require.Eventually(t, func() bool {
		return ta.currentDetail().Title() == "Support desk"
	}, eventually, 10*time.Millisecond)
}

func TestRename_UnknownChat(t *testing.T) {
	ta := signedIn(t)
	require.ErrorIs(t, ta.Rename(context.Background(), []string{"chat-9", "x"}), client.ErrValidation)
}

func TestRemove_OpenChatWithoutIDGoesHome(t *testing.T) {
	ta := signedIn(t)
	ta.Navigate(views.ChatRoute("chat-2"))

	require.NoError(t, ta.Remove(context.Background(), nil))

	require.Eventually(t, func() bool { return ta.Current() == views.RouteHome }, eventually, 10*time.Millisecond)
	assert.Contains(t, ta.output(), "Deleted chat-2")
	roster, err := ta.roster.List(context.Background())
	require.NoError(t, err)
	_, ok := roster.Find("chat-2")
	assert.False(t, ok)
}

func TestRemove_NeedsIDOnLanding(t *testing.T) {
	ta := signedIn(t)
	require.ErrorIs(t, ta.Remove(context.Background(), nil), client.ErrValidation)
}

func TestCloseChat(t *testing.T) {
	ta := signedIn(t)
	ta.Navigate(views.ChatRoute("chat-1"))

	require.NoError(t, ta.CloseChat(context.Background(), nil))
	assert.Equal(t, views.RouteHome, ta.Current())
	assert.Nil(t, ta.currentDetail())
}
