package cmd

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallSpinnerModelShowsLabelUntilDone(t *testing.T) {
	model := newCallSpinnerModel("Loading projects...", nil)
	assert.Contains(t, model.View(), "Loading projects...")

	failure := errors.New("boom")
	next, cmd := model.Update(callDoneMsg{err: failure})
	require.NotNil(t, cmd)
	_, quit := cmd().(tea.QuitMsg)
	assert.True(t, quit)

	done, ok := next.(callSpinnerModel)
	require.True(t, ok)
	assert.Empty(t, done.View())
	assert.ErrorIs(t, done.err, failure)
}
