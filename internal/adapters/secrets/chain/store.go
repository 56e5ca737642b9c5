package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/bnema/folio-admin-cli/internal/adapters/secrets/file"
	passstore "github.com/bnema/folio-admin-cli/internal/adapters/secrets/pass"
	"github.com/bnema/folio-admin-cli/internal/domain"
	"github.com/bnema/folio-admin-cli/internal/ports"
)

const (
	BackendChain = "chain"
	BackendFile  = "file"
	BackendPass  = "pass"
)

// Store reads and writes through primary and falls back to the second
// backend when primary cannot serve the call.
type Store struct {
	primary  ports.SecretStore
	fallback ports.SecretStore
}

var _ ports.SecretStore = (*Store)(nil)

var (
	errNilPrimaryStore  = errors.New("primary secret store is nil")
	errNilFallbackStore = errors.New("fallback secret store is nil")
)

func NewStore(primary ports.SecretStore, fallback ports.SecretStore) *Store {
	store, err := NewStoreChecked(primary, fallback)
	if err != nil {
		panic(err)
	}

	return store
}

func NewStoreChecked(primary ports.SecretStore, fallback ports.SecretStore) (*Store, error) {
	if primary == nil {
		return nil, errNilPrimaryStore
	}
	if fallback == nil {
		return nil, errNilFallbackStore
	}

	return &Store{primary: primary, fallback: fallback}, nil
}

func NewPassFirstWithFileFallback(fileRoot string) (*Store, error) {
	return NewStoreChecked(passstore.NewStore(), filestore.NewStore(fileRoot))
}

// ForBackend builds the secret store named by the secrets.backend setting.
func ForBackend(backend string, fileRoot string) (ports.SecretStore, error) {
	switch backend {
	case "", BackendChain:
		return NewPassFirstWithFileFallback(fileRoot)
	case BackendFile:
		return filestore.NewStore(fileRoot), nil
	case BackendPass:
		return passstore.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown secrets backend %q (want %s, %s or %s)", backend, BackendChain, BackendFile, BackendPass)
	}
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	err := s.primary.Put(ctx, key, value)
	if err == nil {
		return nil
	}
	if shouldSkipFallback(err) {
		return err
	}

	fallbackErr := s.fallback.Put(ctx, key, value)
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("primary backend put failed: %w; fallback backend put failed: %w", err, fallbackErr)
}

// Get falls back on any primary failure, including a missing key, since a
// token written while pass was unavailable lives only in the fallback.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.primary.Get(ctx, key)
	if err == nil {
		return value, nil
	}
	if shouldSkipFallback(err) {
		return "", err
	}

	fallbackValue, fallbackErr := s.fallback.Get(ctx, key)
	if fallbackErr == nil {
		return fallbackValue, nil
	}
	if errors.Is(err, domain.ErrSecretNotFound) && errors.Is(fallbackErr, domain.ErrSecretNotFound) {
		return "", fmt.Errorf("secret %q: %w", key, domain.ErrSecretNotFound)
	}

	return "", fmt.Errorf("primary backend get failed: %w; fallback backend get failed: %w", err, fallbackErr)
}

// Delete clears the key from both backends so no copy outlives a logout.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.primary.Delete(ctx, key)
	if shouldSkipFallback(err) {
		return err
	}
	fallbackErr := s.fallback.Delete(ctx, key)

	if err != nil && !ignorableDeleteError(err) {
		if fallbackErr != nil {
			return fmt.Errorf("primary backend delete failed: %w; fallback backend delete failed: %w", err, fallbackErr)
		}
		return fmt.Errorf("primary backend delete failed: %w", err)
	}
	if fallbackErr != nil && !ignorableDeleteError(fallbackErr) {
		return fmt.Errorf("fallback backend delete failed: %w", fallbackErr)
	}

	return nil
}

func ignorableDeleteError(err error) bool {
	return errors.Is(err, domain.ErrSecretNotFound) || errors.Is(err, passstore.ErrUnavailable)
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
