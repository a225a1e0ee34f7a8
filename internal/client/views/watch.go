package views

import (
	"context"

	"github.com/dmitrijs2005/chatdesk/internal/client/events"
)

// subscription runs fn for every notification on topic until stop is called.
type subscription struct {
	unsub func()
}

func watch(ctx context.Context, bus events.Bus, topic events.Topic, fn func(ctx context.Context)) *subscription {
	ch, unsub := bus.Subscribe(topic)
	ctx = context.WithoutCancel(ctx)
	go func() {
		for range ch {
			fn(ctx)
		}
	}()
	return &subscription{unsub: unsub}
}

// stop unsubscribes. It does not wait for a running fn, so fn may itself
// trigger an unmount.
func (s *subscription) stop() {
	if s == nil {
		return
	}
	s.unsub()
}
