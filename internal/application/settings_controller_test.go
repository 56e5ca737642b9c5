package application

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bnema/folio-admin-cli/internal/domain"
)

func seededSettings(h *harness) {
	h.api.SetSettings(map[string]any{
		"_id":          "settings",
		"heroTitle":    "Hello",
		"heroSubtitle": "I build things",
		"email":        "me@example.com",
		"footerText":   "(c) me",
		"resumeLink":   "/uploads/cv.pdf",
		"profileImage": "/uploads/me.jpg",
	})
}

func TestSettingsRefreshIsPublic(t *testing.T) {
	h := newHarness(t)
	seededSettings(h)
	settings := NewSettingsController(h.client, h.sessions, zap.NewNop())

	_, loaded := settings.Settings()
	assert.False(t, loaded)

	require.NoError(t, settings.Refresh(context.Background()))
	doc, loaded := settings.Settings()
	require.True(t, loaded)
	assert.Equal(t, "Hello", doc.HeroTitle)
	assert.Equal(t, "/uploads/cv.pdf", doc.ResumeLink)
}

func TestSettingsSaveResendsEveryTextFieldAndKeepsHostedFiles(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	seededSettings(h)
	settings := NewSettingsController(h.client, h.sessions, zap.NewNop())
	require.NoError(t, settings.Refresh(context.Background()))

	draft := domain.Draft{Fields: map[string]domain.Value{"heroTitle": domain.Text("Welcome")}}
	require.NoError(t, settings.Save(context.Background(), draft))

	req, ok := h.api.LastRequest(http.MethodPut, "/api/settings")
	require.True(t, ok)
	assert.Contains(t, req.ContentType, "multipart/form-data")
	for _, field := range domain.SettingsSchema.Fields {
		if field.Kind == domain.FieldFile {
			assert.NotContains(t, req.Fields, field.Name)
			assert.NotContains(t, req.Files, field.Name)
			continue
		}
		assert.Contains(t, req.Fields, field.Name)
	}
	assert.Equal(t, "Welcome", req.Fields["heroTitle"])
	assert.Equal(t, "I build things", req.Fields["heroSubtitle"])
	assert.Equal(t, "me@example.com", req.Fields["email"])

	doc, _ := settings.Settings()
	assert.Equal(t, "Welcome", doc.HeroTitle)
	assert.Equal(t, "/uploads/cv.pdf", doc.ResumeLink)
	assert.Equal(t, "/uploads/me.jpg", doc.ProfileImage)
}

func TestSettingsSaveUploadsNewFile(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	seededSettings(h)
	settings := NewSettingsController(h.client, h.sessions, zap.NewNop())
	require.NoError(t, settings.Refresh(context.Background()))

	current, _ := settings.Settings()
	form := NewFormDraftController(settings.Schema())
	form.OpenForEdit(current)
	require.NoError(t, form.SetField("resume", domain.File(domain.FileAttachment{Name: "cv-2026.pdf", ContentType: "application/pdf", Data: []byte("%PDF")})))
	require.NoError(t, form.Submit(context.Background(), settings))

	req, ok := h.api.LastRequest(http.MethodPut, "/api/settings")
	require.True(t, ok)
	assert.Equal(t, "cv-2026.pdf", req.Files["resume"])
	assert.NotContains(t, req.Files, "profileImage")

	doc, _ := settings.Settings()
	assert.Equal(t, "/uploads/cv-2026.pdf", doc.ResumeLink)
	assert.Equal(t, "/uploads/me.jpg", doc.ProfileImage)
}

func TestSettingsSaveRequiresSession(t *testing.T) {
	h := newHarness(t)
	settings := NewSettingsController(h.client, h.sessions, zap.NewNop())

	err := settings.Save(context.Background(), domain.Draft{})
	require.ErrorIs(t, err, domain.ErrNoSession)
	_, sent := h.api.LastRequest(http.MethodPut, "/api/settings")
	assert.False(t, sent)
}

func TestSettingsRefreshToleratesEmptyDocument(t *testing.T) {
	docs, err := decodeDocument([]byte(" null "))
	require.NoError(t, err)
	assert.Empty(t, docs)

	_, err = decodeDocument([]byte("[1,2]"))
	assert.ErrorIs(t, err, domain.ErrRead)
}
