package domain

type ValueKind uint8

const (
	ValueNull ValueKind = iota
	ValueText
	ValueFile
)

func (k ValueKind) String() string {
	switch k {
	case ValueText:
		return "text"
	case ValueFile:
		return "file"
	default:
		return "null"
	}
}

// FileAttachment is a file selected for upload. It is never populated from a
// remote entity; existing hosted files stay on the server.
type FileAttachment struct {
	Name        string
	ContentType string
	Data        []byte
}

type Value struct {
	Kind ValueKind
	Text string
	File *FileAttachment
}

func Text(s string) Value {
	return Value{Kind: ValueText, Text: s}
}

func File(f FileAttachment) Value {
	return Value{Kind: ValueFile, File: &f}
}

func Null() Value {
	return Value{}
}

func (v Value) IsNull() bool {
	return v.Kind == ValueNull
}

// Draft is the editable state of one open create/edit form.
// An empty EditingTargetID means create mode.
type Draft struct {
	Fields          map[string]Value
	EditingTargetID string
}

func (d Draft) IsCreate() bool {
	return d.EditingTargetID == ""
}

func (d Draft) Text(name string) string {
	v, ok := d.Fields[name]
	if !ok || v.Kind != ValueText {
		return ""
	}
	return v.Text
}

func (d Draft) Clone() Draft {
	fields := make(map[string]Value, len(d.Fields))
	for name, v := range d.Fields {
		if v.File != nil {
			file := *v.File
			file.Data = append([]byte(nil), v.File.Data...)
			v.File = &file
		}
		fields[name] = v
	}
	return Draft{Fields: fields, EditingTargetID: d.EditingTargetID}
}

// Payload is a wire-ready request body.
type Payload struct {
	ContentType string
	Body        []byte
}
