package application

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/bnema/folio-admin-cli/internal/domain"
	"github.com/bnema/folio-admin-cli/internal/ports"
)

// Submitter is the write side a form draft is submitted to.
type Submitter interface {
	Create(ctx context.Context, draft domain.Draft) error
	Update(ctx context.Context, id string, draft domain.Draft) error
}

type Encoder interface {
	Encode(schema domain.Schema, draft domain.Draft) (domain.Payload, error)
}

// ResourceController keeps a read-through cache of one remote collection.
// The cache is only ever replaced by a refresh; writes go to the server and
// are followed by a refresh.
type ResourceController[T domain.Entity] struct {
	schema    domain.Schema
	transport ports.Transport
	session   SessionAuthority
	encoder   Encoder
	logger    *zap.Logger
	decode    func([]byte) ([]T, error)

	mu       sync.Mutex
	items    []T
	err      error
	issued   uint64
	applied  uint64
	loading  int
	pending  int
	detached bool
}

func NewResourceController[T domain.Entity](schema domain.Schema, transport ports.Transport, session SessionAuthority, logger *zap.Logger) *ResourceController[T] {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ResourceController[T]{
		schema:    schema,
		transport: transport,
		session:   session,
		encoder:   MultipartEncoder{},
		logger:    logger.With(zap.String("resource", string(schema.Kind))),
		decode:    decodeCollection[T],
		items:     []T{},
	}
}

func (c *ResourceController[T]) Schema() domain.Schema {
	return c.schema
}

// Refresh reloads the collection. Results from a refresh issued before the
// most recently applied one are dropped, and a failed refresh keeps the
// previous cache.
func (c *ResourceController[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.loading++
	c.pending++
	c.mu.Unlock()

	items, err := c.fetch(ctx)

	c.mu.Lock()
	c.loading--
	c.pending--
	switch {
	case c.detached:
	case err != nil:
		if seq > c.applied {
			c.err = err
		}
	case seq <= c.applied:
		c.logger.Debug("discarding stale refresh", zap.Uint64("seq", seq), zap.Uint64("applied", c.applied))
	default:
		c.items = items
		c.applied = seq
		c.err = nil
	}
	c.mu.Unlock()

	if err != nil {
		c.session.InvalidateOnAuthError(ctx, err)
		return fmt.Errorf("refresh %s: %w", c.schema.Kind, err)
	}
	return nil
}

func (c *ResourceController[T]) fetch(ctx context.Context) ([]T, error) {
	call := ports.Call{Method: http.MethodGet, Path: c.schema.ReadPath()}
	if c.schema.ReadRequiresAuth {
		token, err := c.session.Token()
		if err != nil {
			return nil, err
		}
		call.Token = token
	}

	body, err := c.transport.Send(ctx, call)
	if err != nil {
		return nil, err
	}

	items, err := c.decode(body)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		id := item.EntityID()
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
	}
	return items, nil
}

func decodeCollection[T domain.Entity](body []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%w: decode collection: %v", domain.ErrRead, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c *ResourceController[T]) Create(ctx context.Context, draft domain.Draft) error {
	if !c.schema.Creatable {
		return fmt.Errorf("create %s: %w", c.schema.Label, domain.ErrUnsupported)
	}

	payload, err := c.encoder.Encode(c.schema, draft)
	if err != nil {
		return fmt.Errorf("create %s: %w", c.schema.Label, err)
	}
	return c.write(ctx, "create "+c.schema.Label, http.MethodPost, c.schema.CollectionPath, &payload)
}

func (c *ResourceController[T]) Update(ctx context.Context, id string, draft domain.Draft) error {
	if !c.schema.Updatable {
		return fmt.Errorf("update %s: %w", c.schema.Label, domain.ErrUnsupported)
	}
	if id == "" {
		return &domain.ValidationError{Fields: map[string]string{"id": "is required"}}
	}

	payload, err := c.encoder.Encode(c.schema, draft)
	if err != nil {
		return fmt.Errorf("update %s: %w", c.schema.Label, err)
	}
	return c.write(ctx, "update "+c.schema.Label, http.MethodPut, c.schema.ItemPath(id), &payload)
}

// Remove deletes id once confirmer agrees. Nothing is sent otherwise.
func (c *ResourceController[T]) Remove(ctx context.Context, id string, confirmer ports.Confirmer) error {
	if !c.schema.Deletable {
		return fmt.Errorf("delete %s: %w", c.schema.Label, domain.ErrUnsupported)
	}
	if _, err := c.session.Token(); err != nil {
		return err
	}
	if err := confirm(ctx, confirmer, fmt.Sprintf("Delete %s %s?", c.schema.Label, id)); err != nil {
		return err
	}
	return c.write(ctx, "delete "+c.schema.Label, http.MethodDelete, c.schema.ItemPath(id), nil)
}

func (c *ResourceController[T]) ToggleSecondary(ctx context.Context, id string) error {
	if c.schema.Secondary == nil {
		return fmt.Errorf("toggle %s: %w", c.schema.Label, domain.ErrUnsupported)
	}
	return c.write(ctx, c.schema.Secondary.Name+" "+c.schema.Label, http.MethodPut, c.schema.SecondaryPath(id), nil)
}

// Seed asks the server to install its default entries.
func (c *ResourceController[T]) Seed(ctx context.Context, confirmer ports.Confirmer) error {
	if c.schema.SeedPath == "" {
		return fmt.Errorf("seed %s: %w", c.schema.Label, domain.ErrUnsupported)
	}
	if _, err := c.session.Token(); err != nil {
		return err
	}
	if err := confirm(ctx, confirmer, fmt.Sprintf("Seed default %s entries?", c.schema.Label)); err != nil {
		return err
	}
	return c.write(ctx, "seed "+c.schema.Label, http.MethodPost, c.schema.SeedPath, nil)
}

func confirm(ctx context.Context, confirmer ports.Confirmer, prompt string) error {
	if confirmer == nil {
		return domain.ErrNotConfirmed
	}
	ok, err := confirmer.Confirm(ctx, prompt)
	if err != nil {
		return fmt.Errorf("confirm: %w", err)
	}
	if !ok {
		return domain.ErrNotConfirmed
	}
	return nil
}

// write sends one authenticated mutation. A refresh follows only after the
// server acknowledged it; a failing follow-up refresh is recorded in Err but
// does not fail the write.
func (c *ResourceController[T]) write(ctx context.Context, op, method, path string, payload *domain.Payload) error {
	token, err := c.session.Token()
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.pending++
	c.mu.Unlock()

	_, err = c.transport.Send(ctx, ports.Call{Method: method, Path: path, Token: token, Payload: payload})

	c.mu.Lock()
	c.pending--
	c.mu.Unlock()

	if err != nil {
		c.session.InvalidateOnAuthError(ctx, err)
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := c.Refresh(ctx); err != nil {
		c.logger.Warn("refresh after write", zap.String("op", op), zap.Error(err))
	}
	return nil
}

// Items returns a copy of the cached collection in server order.
func (c *ResourceController[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]T, len(c.items))
	copy(items, c.items)
	return items
}

func (c *ResourceController[T]) Find(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, item := range c.items {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (c *ResourceController[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading > 0
}

func (c *ResourceController[T]) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Err is the last refresh failure, cleared by the next applied refresh.
func (c *ResourceController[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Detach stops in-flight calls from touching controller state when they
// complete. The calls themselves are not aborted.
func (c *ResourceController[T]) Detach() {
	c.mu.Lock()
	c.detached = true
	c.mu.Unlock()
}
