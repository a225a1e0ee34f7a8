package session

import (
	"context"

	"github.com/dmitrijs2005/chatdesk/internal/client/models"
)

// Storage keys of the persisted session.
const (
	TokenKey = "authToken"
	UserKey  = "user"
)

type Repository interface {
	Token(ctx context.Context) (string, error)
	User(ctx context.Context) (*models.User, error)
	Load(ctx context.Context) (models.Session, error)
	Save(ctx context.Context, token string, user *models.User) error
	SaveUser(ctx context.Context, user *models.User) error
	Clear(ctx context.Context) error
}
