package domain

import "net/url"

type FieldKind uint8

const (
	FieldText FieldKind = iota
	// FieldList is edited as a comma separated string and sent as a sequence.
	FieldList
	FieldFile
)

type Field struct {
	Name string
	Kind FieldKind
	// Rule is a validator tag such as "required" or "omitempty,url".
	// On file fields "required" applies in create mode only.
	Rule    string
	Default string
}

// SecondaryAction is a server-side boolean flip exposed next to CRUD,
// e.g. PUT /api/reviews/{id}/approve.
type SecondaryAction struct {
	Name   string
	Suffix string
}

// Schema binds a resource type to its endpoint family and field policy.
type Schema struct {
	Kind  View
	Label string
	// CollectionPath serves POST and, joined with an id, PUT and DELETE.
	CollectionPath string
	// ListPath overrides CollectionPath for reads when set.
	ListPath         string
	ReadRequiresAuth bool
	Creatable        bool
	Updatable        bool
	Deletable        bool
	Secondary        *SecondaryAction
	SeedPath         string
	// AlwaysMultipart forces a multipart body even without a new file.
	AlwaysMultipart bool
	// FullDocument resends every text field on write.
	FullDocument bool
	Fields       []Field
	Columns      []string
}

func (s Schema) ReadPath() string {
	if s.ListPath != "" {
		return s.ListPath
	}
	return s.CollectionPath
}

// ItemPath escapes id so it always names a single path segment.
func (s Schema) ItemPath(id string) string {
	return s.CollectionPath + "/" + url.PathEscape(id)
}

func (s Schema) SecondaryPath(id string) string {
	if s.Secondary == nil {
		return ""
	}
	return s.ItemPath(id) + "/" + s.Secondary.Suffix
}

func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// BlankDraft returns the create-mode template for this resource.
func (s Schema) BlankDraft() Draft {
	fields := make(map[string]Value, len(s.Fields))
	for _, f := range s.Fields {
		if f.Kind == FieldFile {
			fields[f.Name] = Null()
			continue
		}
		fields[f.Name] = Text(f.Default)
	}
	return Draft{Fields: fields}
}

// Entity is a server-owned record with a collection-unique id.
type Entity interface {
	EntityID() string
}

// Editable entities can seed a draft. List fields are flattened with ", ".
type Editable interface {
	Entity
	DraftFields() map[string]string
}

// Row is implemented by entities that can be rendered as a table row.
type Row interface {
	RowCells() []string
}
