package cmd

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/folio-admin-cli/internal/application"
	"github.com/bnema/folio-admin-cli/internal/domain"
)

type draftFlags struct {
	sets  []string
	files []string
}

func (f *draftFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.sets, "set", nil, "Set a text field, as field=value (repeatable)")
	cmd.Flags().StringArrayVar(&f.files, "file", nil, "Attach a file to a file field, as field=path (repeatable)")
}

func (f *draftFlags) empty() bool {
	return len(f.sets) == 0 && len(f.files) == 0
}

// apply copies flag values into the open draft. Type checks happen in the
// form controller; this only parses and loads files.
func (f *draftFlags) apply(form *application.FormDraftController) error {
	for _, raw := range f.sets {
		name, value, err := splitAssignment(raw, "--set")
		if err != nil {
			return err
		}
		if err := form.SetField(name, domain.Text(value)); err != nil {
			return err
		}
	}

	for _, raw := range f.files {
		name, path, err := splitAssignment(raw, "--file")
		if err != nil {
			return err
		}
		attachment, err := loadAttachment(path)
		if err != nil {
			return err
		}
		if err := form.SetField(name, domain.File(attachment)); err != nil {
			return err
		}
	}

	return nil
}

func splitAssignment(raw, flag string) (string, string, error) {
	name, value, ok := strings.Cut(raw, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("%s %q: expected field=value", flag, raw)
	}
	return name, value, nil
}

func loadAttachment(path string) (domain.FileAttachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.FileAttachment{}, fmt.Errorf("read attachment: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return domain.FileAttachment{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// fieldHelp lists a schema's editable fields for command help.
func fieldHelp(schema domain.Schema) string {
	if len(schema.Fields) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Fields:\n")
	for _, field := range schema.Fields {
		notes := make([]string, 0, 3)
		switch field.Kind {
		case domain.FieldList:
			notes = append(notes, "comma separated")
		case domain.FieldFile:
			notes = append(notes, "file, use --file")
		}
		if field.Rule != "" {
			notes = append(notes, field.Rule)
		}
		if field.Default != "" {
			notes = append(notes, "default "+field.Default)
		}

		line := "  " + field.Name
		if len(notes) > 0 {
			line += " (" + strings.Join(notes, "; ") + ")"
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
