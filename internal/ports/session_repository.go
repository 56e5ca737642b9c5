package ports

import (
	"context"

	"github.com/bnema/folio-admin-cli/internal/domain"
)

// SessionRepository persists the single operator session record.
// Load returns domain.ErrSessionNotFound when nothing is stored.
type SessionRepository interface {
	Load(ctx context.Context) (domain.SessionRecord, error)
	Save(ctx context.Context, record domain.SessionRecord) error
	Clear(ctx context.Context) error
}
