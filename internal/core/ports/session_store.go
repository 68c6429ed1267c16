package ports

import (
	"context"

	"github.com/minutehire/auth-gateway/internal/core/domain"
)

// SessionStore persists sessions keyed by session id. Load returns
// domain.ErrSessionNotFound when nothing is stored. Writes are last-write-wins.
type SessionStore interface {
	Save(ctx context.Context, sid string, session *domain.Session) error
	Load(ctx context.Context, sid string) (*domain.Session, error)
	Clear(ctx context.Context, sid string) error
}
