package ports

import (
	"context"

	"github.com/bnema/folio-admin-cli/internal/domain"
)

type Authenticator interface {
	Authenticate(ctx context.Context, identifier, secret string) (domain.Session, error)
}

// Call is one request against the content API. An empty Token sends the
// request without credentials.
type Call struct {
	Method  string
	Path    string
	Token   string
	Payload *domain.Payload
}

// Transport performs calls and maps failures onto the domain error taxonomy.
type Transport interface {
	Send(ctx context.Context, call Call) ([]byte, error)
}

// Confirmer is the human-in-the-loop gate in front of destructive operations.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}
