package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	filestore "github.com/bnema/folio-admin-cli/internal/adapters/secrets/file"
	passstore "github.com/bnema/folio-admin-cli/internal/adapters/secrets/pass"
	"github.com/bnema/folio-admin-cli/internal/domain"
	portmocks "github.com/bnema/folio-admin-cli/internal/ports/mocks"
)

const sessionKey = "folio-admin/session/token"

func TestStoreGetUsesPrimaryWhenItSucceeds(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, sessionKey).Return("from-pass", nil).Once()

	value, err := store.Get(context.Background(), sessionKey)
	require.NoError(t, err)
	assert.Equal(t, "from-pass", value)
}

func TestStoreGetFallsBackWhenPrimaryMissesKey(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, sessionKey).Return("", domain.ErrSecretNotFound).Once()
	fallback.EXPECT().Get(mock.Anything, sessionKey).Return("from-file", nil).Once()

	value, err := store.Get(context.Background(), sessionKey)
	require.NoError(t, err)
	assert.Equal(t, "from-file", value)
}

func TestStoreGetReportsNotFoundWhenNeitherBackendHasKey(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, sessionKey).Return("", domain.ErrSecretNotFound).Once()
	fallback.EXPECT().Get(mock.Anything, sessionKey).Return("", domain.ErrSecretNotFound).Once()

	_, err := store.Get(context.Background(), sessionKey)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreGetReturnsCombinedErrorWhenBothBackendsFail(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, sessionKey).Return("", errors.New("pass failed")).Once()
	fallback.EXPECT().Get(mock.Anything, sessionKey).Return("", errors.New("file failed")).Once()

	_, err := store.Get(context.Background(), sessionKey)
	require.Error(t, err)
	assert.ErrorContains(t, err, "pass failed")
	assert.ErrorContains(t, err, "file failed")
}

func TestStorePutFallsBackWhenPassIsUnavailable(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Put(mock.Anything, sessionKey, "tok").Return(passstore.ErrUnavailable).Once()
	fallback.EXPECT().Put(mock.Anything, sessionKey, "tok").Return(nil).Once()

	require.NoError(t, store.Put(context.Background(), sessionKey, "tok"))
}

func TestStorePutDoesNotFallBackOnCanceledContext(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Put(mock.Anything, sessionKey, "tok").Return(context.Canceled).Once()

	require.ErrorIs(t, store.Put(context.Background(), sessionKey, "tok"), context.Canceled)
}

func TestStoreDeleteClearsBothBackends(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Delete(mock.Anything, sessionKey).Return(passstore.ErrUnavailable).Once()
	fallback.EXPECT().Delete(mock.Anything, sessionKey).Return(nil).Once()

	require.NoError(t, store.Delete(context.Background(), sessionKey))
}

func TestStoreDeleteReportsRealFailures(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Delete(mock.Anything, sessionKey).Return(nil).Once()
	fallback.EXPECT().Delete(mock.Anything, sessionKey).Return(errors.New("read-only filesystem")).Once()

	err := store.Delete(context.Background(), sessionKey)
	assert.ErrorContains(t, err, "read-only filesystem")
}

func TestNewStoreCheckedRejectsNilBackends(t *testing.T) {
	t.Parallel()

	_, err := NewStoreChecked(nil, portmocks.NewMockSecretStore(t))
	require.ErrorIs(t, err, errNilPrimaryStore)

	_, err = NewStoreChecked(portmocks.NewMockSecretStore(t), nil)
	require.ErrorIs(t, err, errNilFallbackStore)
}

func TestForBackendSelectsImplementation(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	store, err := ForBackend(BackendFile, root)
	require.NoError(t, err)
	assert.IsType(t, &filestore.Store{}, store)

	store, err = ForBackend(BackendPass, root)
	require.NoError(t, err)
	assert.IsType(t, &passstore.Store{}, store)

	store, err = ForBackend("", root)
	require.NoError(t, err)
	assert.IsType(t, &Store{}, store)

	_, err = ForBackend("keychain", root)
	assert.ErrorContains(t, err, "unknown secrets backend")
}
