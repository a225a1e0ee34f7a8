package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/chatdesk/internal/client/models"
	"github.com/dmitrijs2005/chatdesk/internal/client/repositories/kv"
)

type KVRepository struct {
	store kv.Store
}

func NewKVRepository(store kv.Store) *KVRepository {
	return &KVRepository{store: store}
}

func (r *KVRepository) Token(ctx context.Context) (string, error) {
	token, _, err := r.store.Get(ctx, TokenKey)
	if err != nil {
		return "", fmt.Errorf("failed to get session token: %w", err)
	}
	return token, nil
}

// User returns the cached profile. A missing or unreadable value reads as
// nil: the cache is rebuilt from GET /auth/me.
func (r *KVRepository) User(ctx context.Context) (*models.User, error) {
	raw, ok, err := r.store.Get(ctx, UserKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get session user: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, nil
	}
	return &u, nil
}

// Load returns the persisted session. The profile is dropped when there is
// no token.
func (r *KVRepository) Load(ctx context.Context) (models.Session, error) {
	token, err := r.Token(ctx)
	if err != nil {
		return models.Session{}, err
	}
	if token == "" {
		return models.Session{}, nil
	}
	user, err := r.User(ctx)
	if err != nil {
		return models.Session{}, err
	}
	return models.Session{Token: token, User: user}, nil
}

func (r *KVRepository) Save(ctx context.Context, token string, user *models.User) error {
	values := map[string]string{TokenKey: token}
	if user != nil {
		raw, err := encodeUser(user)
		if err != nil {
			return err
		}
		values[UserKey] = raw
	}
	if err := r.store.SetMany(ctx, values); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	if user == nil {
		if err := r.store.Delete(ctx, UserKey); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
	}
	return nil
}

func (r *KVRepository) SaveUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return r.store.Delete(ctx, UserKey)
	}
	raw, err := encodeUser(user)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, UserKey, raw); err != nil {
		return fmt.Errorf("failed to save session user: %w", err)
	}
	return nil
}

func (r *KVRepository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, TokenKey, UserKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func encodeUser(user *models.User) (string, error) {
	u := user.WithFullName()
	b, err := json.Marshal(u)
	if err != nil {
		return "", fmt.Errorf("failed to encode session user: %w", err)
	}
	return string(b), nil
}
