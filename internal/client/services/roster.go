package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/chatdesk/internal/client/events"
	"github.com/dmitrijs2005/chatdesk/internal/client/models"
	"github.com/dmitrijs2005/chatdesk/internal/client/repositories/kv"
	"github.com/dmitrijs2005/chatdesk/internal/client/validation"
	"github.com/dmitrijs2005/chatdesk/internal/logging"
)

// Storage keys of the roster.
const (
	RosterKey        = "chats"
	CorruptRosterKey = "chats.corrupt"
)

// RosterService owns the persisted chat roster shared by every view.
//
// Contract:
//   - List always reads the store, so a freshly mounted view sees the latest
//     committed roster.
//   - A missing, unparsable or wrongly shaped roster is replaced by the
//     three default chats and written back. An empty list is kept.
//   - Create, Rename and Remove write the whole roster and then publish
//     events.TopicRosterChanged.
//   - Write failures are logged, not returned: the change stays visible
//     through List and is written again on the next access.
type RosterService interface {
	List(ctx context.Context) (models.Roster, error)
	Get(ctx context.Context, id string) (models.Chat, bool, error)
	Create(ctx context.Context, message string) (models.Chat, error)
	Rename(ctx context.Context, id, name string) error
	Remove(ctx context.Context, id string) error
}

type rosterService struct {
	store kv.Store
	bus   events.Bus
	log   logging.Logger

	mu sync.Mutex
	// unsaved holds a roster whose write failed; nil when the store is current.
	unsaved models.Roster
}

func NewRosterService(store kv.Store, bus events.Bus, log logging.Logger) RosterService {
	return &rosterService{store: store, bus: bus, log: log}
}

func (s *rosterService) List(ctx context.Context) (models.Roster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return r.Clone(), nil
}

func (s *rosterService) Get(ctx context.Context, id string) (models.Chat, bool, error) {
	r, err := s.List(ctx)
	if err != nil {
		return models.Chat{}, false, err
	}
	c, ok := r.Find(id)
	return c, ok, nil
}

func (s *rosterService) Create(ctx context.Context, message string) (models.Chat, error) {
	var created models.Chat
	err := s.mutate(ctx, func(r models.Roster) (models.Roster, bool) {
		n := r.NextNumber()
		created = models.Chat{ID: models.ChatID(n), Name: validation.ChatName(message, n)}
		return append(r, created), true
	})
	if err != nil {
		return models.Chat{}, err
	}
	s.log.Debug(ctx, "chat created", "chat_id", created.ID)
	return created, nil
}

// Rename is a no-op when name is blank after sanitizing or id is unknown.
func (s *rosterService) Rename(ctx context.Context, id, name string) error {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	clean := validation.Sanitize(name)
	if clean == "" {
		return nil
	}
	return s.mutate(ctx, func(r models.Roster) (models.Roster, bool) {
		for i := range r {
			if r[i].ID == id {
				r[i].Name = clean
				return r, true
			}
		}
		return r, false
	})
}

// Remove drops the chat with the given id. Unknown ids are ignored.
func (s *rosterService) Remove(ctx context.Context, id string) error {
	return s.mutate(ctx, func(r models.Roster) (models.Roster, bool) {
		out := make(models.Roster, 0, len(r))
		for _, c := range r {
			if c.ID != id {
				out = append(out, c)
			}
		}
		return out, len(out) != len(r)
	})
}

// mutate applies fn to the current roster, writes the result and announces
// it. fn reports whether it changed anything.
func (s *rosterService) mutate(ctx context.Context, fn func(models.Roster) (models.Roster, bool)) error {
	s.mu.Lock()
	r, err := s.load(ctx)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	next, changed := fn(r.Clone())
	if changed {
		s.save(ctx, next)
	}
	s.mu.Unlock()

	if changed {
		s.bus.Publish(ctx, events.TopicRosterChanged)
	}
	return nil
}

// load returns the roster to serve. Callers hold s.mu.
func (s *rosterService) load(ctx context.Context) (models.Roster, error) {
	if s.unsaved != nil {
		pending := s.unsaved
		s.save(ctx, pending)
		return pending, nil
	}

	raw, ok, err := s.store.Get(ctx, RosterKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	if !ok {
		s.log.Info(ctx, "seeding chat roster")
		seed := models.DefaultRoster()
		s.save(ctx, seed)
		return seed, nil
	}

	r, ok := parseRoster(raw)
	if !ok {
		s.log.Warn(ctx, "stored roster is corrupt, reseeding", "key", RosterKey, "quarantine", CorruptRosterKey)
		if err := s.store.Set(ctx, CorruptRosterKey, raw); err != nil {
			s.log.Error(ctx, "failed to keep corrupt roster", "error", err)
		}
		seed := models.DefaultRoster()
		s.save(ctx, seed)
		return seed, nil
	}
	return r, nil
}

// save writes r. On failure the roster is kept in memory and retried by the
// next load. Callers hold s.mu.
func (s *rosterService) save(ctx context.Context, r models.Roster) {
	if r == nil {
		r = models.Roster{}
	}
	b, err := json.Marshal(r)
	if err == nil {
		err = s.store.Set(ctx, RosterKey, string(b))
	}
	if err != nil {
		s.log.Error(ctx, "failed to persist roster", "error", err)
		s.unsaved = r.Clone()
		return
	}
	s.unsaved = nil
}

type storedChat struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
}

// parseRoster decodes a stored roster. ok is false for anything other than
// an array of {id, name} string pairs with unique, non-empty ids.
func parseRoster(raw string) (models.Roster, bool) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "[") {
		return nil, false
	}
	var items []storedChat
	if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		return nil, false
	}

	r := make(models.Roster, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.ID == nil || it.Name == nil || *it.ID == "" {
			return nil, false
		}
		if _, dup := seen[*it.ID]; dup {
			return nil, false
		}
		seen[*it.ID] = struct{}{}
		r = append(r, models.Chat{ID: *it.ID, Name: *it.Name})
	}
	return r, true
}
