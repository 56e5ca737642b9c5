package application

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/bnema/folio-admin-cli/internal/domain"
)

const ContentTypeJSON = "application/json"

const defaultFileContentType = "application/octet-stream"

// MultipartEncoder turns a draft into a request body. A draft carrying at
// least one file, or a schema that always wants multipart, is sent as
// multipart/form-data; everything else is JSON.
type MultipartEncoder struct{}

func (MultipartEncoder) Encode(schema domain.Schema, draft domain.Draft) (domain.Payload, error) {
	if schema.AlwaysMultipart || hasFile(schema, draft) {
		return encodeMultipart(schema, draft)
	}
	return encodeJSON(schema, draft)
}

func hasFile(schema domain.Schema, draft domain.Draft) bool {
	for _, field := range schema.Fields {
		if field.Kind != domain.FieldFile {
			continue
		}
		if v, ok := draft.Fields[field.Name]; ok && v.Kind == domain.ValueFile && v.File != nil {
			return true
		}
	}
	return false
}

// textFields yields the text and list fields to send, in schema order.
// Absent fields are skipped unless the schema replaces the whole document.
func textFields(schema domain.Schema, draft domain.Draft, visit func(field domain.Field, value string)) {
	for _, field := range schema.Fields {
		if field.Kind == domain.FieldFile {
			continue
		}
		v, ok := draft.Fields[field.Name]
		if (!ok || v.Kind != domain.ValueText) && !schema.FullDocument {
			continue
		}
		visit(field, v.Text)
	}
}

func encodeJSON(schema domain.Schema, draft domain.Draft) (domain.Payload, error) {
	body := make(map[string]any, len(schema.Fields))
	textFields(schema, draft, func(field domain.Field, value string) {
		if field.Kind == domain.FieldList {
			body[field.Name] = domain.SplitList(value)
			return
		}
		body[field.Name] = value
	})

	raw, err := json.Marshal(body)
	if err != nil {
		return domain.Payload{}, fmt.Errorf("encode json body: %w", err)
	}
	return domain.Payload{ContentType: ContentTypeJSON, Body: raw}, nil
}

func encodeMultipart(schema domain.Schema, draft domain.Draft) (domain.Payload, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	var writeErr error
	textFields(schema, draft, func(field domain.Field, value string) {
		if writeErr != nil {
			return
		}
		if field.Kind == domain.FieldList {
			value = strings.Join(domain.SplitList(value), ",")
		}
		writeErr = writer.WriteField(field.Name, value)
	})
	if writeErr != nil {
		return domain.Payload{}, fmt.Errorf("write multipart field: %w", writeErr)
	}

	for _, field := range schema.Fields {
		if field.Kind != domain.FieldFile {
			continue
		}
		v, ok := draft.Fields[field.Name]
		if !ok || v.Kind != domain.ValueFile || v.File == nil {
			continue
		}
		if err := writeFilePart(writer, field.Name, *v.File); err != nil {
			return domain.Payload{}, fmt.Errorf("write multipart file %q: %w", field.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return domain.Payload{}, fmt.Errorf("close multipart body: %w", err)
	}
	return domain.Payload{ContentType: writer.FormDataContentType(), Body: buf.Bytes()}, nil
}

func writeFilePart(writer *multipart.Writer, name string, file domain.FileAttachment) error {
	contentType := file.ContentType
	if contentType == "" {
		contentType = defaultFileContentType
	}
	filename := file.Name
	if filename == "" {
		filename = name
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, name, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = part.Write(file.Data)
	return err
}
