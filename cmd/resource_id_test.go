package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/folio-admin-cli/internal/domain"
)

func TestResolveEntityID(t *testing.T) {
	items := []domain.Project{{ID: "proj-alpha"}, {ID: "proj-beta"}, {ID: "proj"}}

	id, err := resolveEntityID(items, "proj-a")
	require.NoError(t, err)
	assert.Equal(t, "proj-alpha", id)

	id, err = resolveEntityID(items, " proj ")
	require.NoError(t, err)
	assert.Equal(t, "proj", id, "exact match wins over prefix matches")

	_, err = resolveEntityID(items, "proj-")
	assert.ErrorIs(t, err, errAmbiguousID)

	_, err = resolveEntityID(items, "svc")
	assert.ErrorIs(t, err, errUnknownID)

	_, err = resolveEntityID(items, "  ")
	assert.ErrorContains(t, err, "must not be empty")
}
