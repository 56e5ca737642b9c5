package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/bnema/folio-admin-cli/internal/domain"
	"github.com/bnema/folio-admin-cli/internal/ports"
)

// SettingsController manages the single site settings document. The server
// overwrites the whole document on PUT, so every text field is sent on save.
type SettingsController struct {
	inner *ResourceController[domain.SiteSettings]
}

func NewSettingsController(transport ports.Transport, session SessionAuthority, logger *zap.Logger) *SettingsController {
	inner := NewResourceController[domain.SiteSettings](domain.SettingsSchema, transport, session, logger)
	inner.decode = decodeDocument
	return &SettingsController{inner: inner}
}

func decodeDocument(body []byte) ([]domain.SiteSettings, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []domain.SiteSettings{}, nil
	}

	var doc domain.SiteSettings
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode settings: %v", domain.ErrRead, err)
	}
	return []domain.SiteSettings{doc}, nil
}

func (c *SettingsController) Schema() domain.Schema {
	return c.inner.Schema()
}

func (c *SettingsController) Refresh(ctx context.Context) error {
	return c.inner.Refresh(ctx)
}

// Settings returns the cached document and whether one has been loaded.
func (c *SettingsController) Settings() (domain.SiteSettings, bool) {
	items := c.inner.Items()
	if len(items) == 0 {
		return domain.SiteSettings{}, false
	}
	return items[0], true
}

// Save replaces the settings document. Text fields missing from the draft
// are filled from the cached document; file fields left empty are omitted
// so the hosted files stay in place.
func (c *SettingsController) Save(ctx context.Context, draft domain.Draft) error {
	merged := draft.Clone()
	if current, ok := c.Settings(); ok {
		for name, value := range current.DraftFields() {
			if _, present := merged.Fields[name]; !present {
				merged.Fields[name] = domain.Text(value)
			}
		}
	}

	payload, err := c.inner.encoder.Encode(c.inner.schema, merged)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return c.inner.write(ctx, "update settings", http.MethodPut, c.inner.schema.CollectionPath, &payload)
}

func (c *SettingsController) Create(ctx context.Context, draft domain.Draft) error {
	return c.Save(ctx, draft)
}

func (c *SettingsController) Update(ctx context.Context, _ string, draft domain.Draft) error {
	return c.Save(ctx, draft)
}

func (c *SettingsController) Loading() bool { return c.inner.Loading() }

func (c *SettingsController) Pending() int { return c.inner.Pending() }

func (c *SettingsController) Err() error { return c.inner.Err() }

func (c *SettingsController) Detach() { c.inner.Detach() }
