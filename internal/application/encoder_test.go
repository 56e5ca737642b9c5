package application

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/folio-admin-cli/internal/domain"
)

type decodedMultipart struct {
	fields map[string]string
	files  map[string]string
	types  map[string]string
}

func decodeMultipart(t *testing.T, payload domain.Payload) decodedMultipart {
	t.Helper()

	mediaType, params, err := mime.ParseMediaType(payload.ContentType)
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	out := decodedMultipart{fields: map[string]string{}, files: map[string]string{}, types: map[string]string{}}
	reader := multipart.NewReader(bytes.NewReader(payload.Body), params["boundary"])
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		data, err := io.ReadAll(part)
		require.NoError(t, err)
		if part.FileName() != "" {
			out.files[part.FormName()] = string(data)
			out.types[part.FormName()] = part.Header.Get("Content-Type")
			continue
		}
		out.fields[part.FormName()] = string(data)
	}
}

func TestEncodeWithoutFilesProducesJSON(t *testing.T) {
	draft := domain.ProjectSchema.BlankDraft()
	draft.Fields["title"] = domain.Text("Portfolio")
	draft.Fields["description"] = domain.Text("Personal site")
	draft.Fields["tags"] = domain.Text("react, node")
	draft.Fields["category"] = domain.Text("Web App")

	payload, err := MultipartEncoder{}.Encode(domain.ProjectSchema, draft)
	require.NoError(t, err)
	assert.Equal(t, ContentTypeJSON, payload.ContentType)

	var body map[string]any
	require.NoError(t, json.Unmarshal(payload.Body, &body))
	assert.Equal(t, []any{"react", "node"}, body["tags"])
	assert.Equal(t, "Portfolio", body["title"])
	assert.Equal(t, "", body["liveLink"])
	assert.NotContains(t, body, "image")
}

func TestEncodeWithFileProducesMultipart(t *testing.T) {
	draft := domain.ProjectSchema.BlankDraft()
	draft.Fields["title"] = domain.Text("Portfolio")
	draft.Fields["tags"] = domain.Text(" react ,node,, ")
	draft.Fields["image"] = domain.File(domain.FileAttachment{Name: "shot.png", ContentType: "image/png", Data: []byte("png-bytes")})

	payload, err := MultipartEncoder{}.Encode(domain.ProjectSchema, draft)
	require.NoError(t, err)

	decoded := decodeMultipart(t, payload)
	assert.Equal(t, "Portfolio", decoded.fields["title"])
	assert.Equal(t, "react,node", decoded.fields["tags"])
	assert.Equal(t, "png-bytes", decoded.files["image"])
	assert.Equal(t, "image/png", decoded.types["image"])
}

func TestEncodeOmitsNullFileOnTechStackEdit(t *testing.T) {
	draft := domain.Draft{
		Fields: map[string]domain.Value{
			"name":     domain.Text("Go"),
			"category": domain.Text("Backend"),
			"icon":     domain.Null(),
		},
		EditingTargetID: "t1",
	}

	payload, err := MultipartEncoder{}.Encode(domain.TechStackSchema, draft)
	require.NoError(t, err)
	assert.Equal(t, ContentTypeJSON, payload.ContentType)

	var body map[string]any
	require.NoError(t, json.Unmarshal(payload.Body, &body))
	assert.Equal(t, map[string]any{"name": "Go", "category": "Backend"}, body)
}

func TestEncodeAlwaysMultipartOmitsNullFiles(t *testing.T) {
	draft := domain.Draft{Fields: map[string]domain.Value{
		"heroTitle":    domain.Text("Hi"),
		"resume":       domain.Null(),
		"profileImage": domain.File(domain.FileAttachment{Name: "me.jpg", Data: []byte("jpg")}),
	}}

	payload, err := MultipartEncoder{}.Encode(domain.SettingsSchema, draft)
	require.NoError(t, err)

	decoded := decodeMultipart(t, payload)
	assert.NotContains(t, decoded.fields, "resume")
	assert.NotContains(t, decoded.files, "resume")
	assert.Equal(t, "jpg", decoded.files["profileImage"])
	assert.Equal(t, "application/octet-stream", decoded.types["profileImage"])
	assert.Equal(t, "Hi", decoded.fields["heroTitle"])
	assert.Contains(t, decoded.fields, "footerText")
	assert.Equal(t, "", decoded.fields["footerText"])
}

func TestEncodeSkipsFieldsOutsideSchema(t *testing.T) {
	draft := textDraft(map[string]string{"title": "Hosting", "description": "Managed", "owner": "x"})

	payload, err := MultipartEncoder{}.Encode(domain.ServiceSchema, draft)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(payload.Body, &body))
	assert.Equal(t, map[string]any{"title": "Hosting", "description": "Managed"}, body)
}
