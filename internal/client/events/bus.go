// Package events carries payload-free change notifications between views
// that share no in-memory state. A notification only says "re-read the
// store"; listeners never receive data through it.
package events

import (
	"context"
	"sync"
)

// Topic is the closed set of notifications.
type Topic int

const (
	// TopicRosterChanged: the persisted chat roster was written.
	TopicRosterChanged Topic = iota + 1
	// TopicSessionChanged: the token or cached profile was written or cleared.
	TopicSessionChanged
	// TopicSessionExpired: the backend rejected the token and the session was torn down.
	TopicSessionExpired
)

var topicNames = map[Topic]string{
	TopicRosterChanged:  "roster-changed",
	TopicSessionChanged: "session-changed",
	TopicSessionExpired: "session-expired",
}

func (t Topic) String() string {
	if s, ok := topicNames[t]; ok {
		return s
	}
	return "unknown"
}

// ParseTopic is the inverse of Topic.String.
func ParseTopic(s string) (Topic, bool) {
	for t, name := range topicNames {
		if name == s {
			return t, true
		}
	}
	return 0, false
}

// Bus publishes and delivers topics.
type Bus interface {
	Publish(ctx context.Context, t Topic)

	// Subscribe returns a channel receiving t and a function that ends the
	// subscription and closes the channel. Notifications that arrive while
	// one is already pending are merged into it.
	Subscribe(t Topic) (<-chan Topic, func())
}

// LocalBus fans notifications out to subscribers in this process.
type LocalBus struct {
	mu          sync.RWMutex
	subscribers map[Topic]map[chan Topic]struct{}
}

func NewLocalBus() *LocalBus {
	return &LocalBus{subscribers: make(map[Topic]map[chan Topic]struct{})}
}

func (b *LocalBus) Subscribe(t Topic) (<-chan Topic, func()) {
	ch := make(chan Topic, 1)

	b.mu.Lock()
	if b.subscribers[t] == nil {
		b.subscribers[t] = make(map[chan Topic]struct{})
	}
	b.subscribers[t][ch] = struct{}{}
	b.mu.Unlock()

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subscribers[t][ch]; ok {
			delete(b.subscribers[t], ch)
			close(ch)
		}
	}
	return ch, unsubscribe
}

func (b *LocalBus) Publish(ctx context.Context, t Topic) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers[t] {
		select {
		case ch <- t:
		default:
			// already pending
		}
	}
}

// Subscribers reports how many subscriptions are open for t.
func (b *LocalBus) Subscribers(t Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[t])
}
