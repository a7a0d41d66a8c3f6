package textdex

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/kailas-cloud/textdex/internal/domain/record"
)

const tagKey = "textdex"

// FieldSpec describes how one struct field maps to a document field.
type FieldSpec struct {
	// Name is the document field name.
	Name string
	// GoField is the struct field this mapping reads and writes.
	GoField string
	// Identity fields are stored verbatim and used as delete/update keys.
	Identity bool
	// Store keeps the value retrievable. Index-only fields decode as zero.
	Store bool
	// HTML strips tags and entities from string values before indexing.
	HTML bool
	// Text tokenizes string values; otherwise they are exact-match keywords.
	Text bool
	// Highlight renders previews of the field in search results.
	Highlight bool
	// HighlightFragments is the number of fragments joined in a preview.
	HighlightFragments int

	index []int
}

// schemaMeta is the parsed mapping for one struct type.
type schemaMeta struct {
	typ      reflect.Type
	typeName string
	specs    []FieldSpec

	highlighted []int // positions in specs
	marshaler   bool
	unmarshaler bool
}

// schemaCache holds one schemaMeta per struct type. Entries are immutable
// once stored.
type schemaCache struct {
	m sync.Map // reflect.Type -> *schemaMeta
}

func newSchemaCache() *schemaCache {
	return &schemaCache{}
}

// get returns the cached mapping for t, parsing struct tags on first use.
// Types without mapped fields are cached like any other.
func (c *schemaCache) get(t reflect.Type) (*schemaMeta, error) {
	if v, ok := c.m.Load(t); ok {
		return v.(*schemaMeta), nil
	}
	meta, err := parseSchema(t)
	if err != nil {
		return nil, err
	}
	actual, _ := c.m.LoadOrStore(t, meta)
	return actual.(*schemaMeta), nil
}

func (c *schemaCache) put(t reflect.Type, meta *schemaMeta) {
	c.m.Store(t, meta)
}

// RegisterSchema binds explicit field specs to T, replacing struct tag
// parsing for T. Each spec names its struct field in GoField; an empty Name
// defaults to GoField.
func RegisterSchema[T any](e *Engine, specs ...FieldSpec) error {
	t := structType(reflect.TypeFor[T]())
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("%w: type %s is not a struct", ErrInvalidSchema, t)
	}
	meta := newSchemaMeta(t)
	for _, s := range specs {
		f, ok := t.FieldByName(s.GoField)
		if !ok {
			return fmt.Errorf("%w: %s has no field %q", ErrInvalidSchema, t, s.GoField)
		}
		if !f.IsExported() {
			return fmt.Errorf("%w: field %s.%s is unexported", ErrInvalidSchema, t, s.GoField)
		}
		if s.Name == "" {
			s.Name = s.GoField
		}
		if s.Highlight && s.HighlightFragments == 0 {
			s.HighlightFragments = 1
		}
		s.index = f.Index
		if err := validateSpec(&s); err != nil {
			return fmt.Errorf("%s.%s: %w", t, s.GoField, err)
		}
		meta.add(s)
	}
	e.schemas.put(t, meta)
	return nil
}

func structType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func newSchemaMeta(t reflect.Type) *schemaMeta {
	return &schemaMeta{
		typ:         t,
		typeName:    typeIdentity(t),
		marshaler:   reflect.PointerTo(t).Implements(recordMarshalerType),
		unmarshaler: reflect.PointerTo(t).Implements(recordUnmarshalerType),
	}
}

func (m *schemaMeta) add(s FieldSpec) {
	if s.Highlight {
		m.highlighted = append(m.highlighted, len(m.specs))
	}
	m.specs = append(m.specs, s)
}

// typeIdentity is the value of the reserved type field for t.
func typeIdentity(t reflect.Type) string {
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// parseSchema reflects on t and extracts textdex struct tag metadata.
func parseSchema(t reflect.Type) (*schemaMeta, error) {
	t = structType(t)
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: type %s is not a struct", ErrInvalidSchema, t)
	}

	meta := newSchemaMeta(t)
	for i := range t.NumField() {
		f := t.Field(i)
		tag, ok := f.Tag.Lookup(tagKey)
		if !ok || tag == "-" {
			continue
		}
		if !f.IsExported() {
			return nil, fmt.Errorf("%w: field %s.%s is unexported", ErrInvalidSchema, t, f.Name)
		}
		spec, err := parseTag(f.Name, tag)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t, f.Name, err)
		}
		spec.index = f.Index
		meta.add(spec)
	}
	return meta, nil
}

// parseTag parses `textdex:"name,opt,opt"`. Fields are stored by default.
func parseTag(goField, tag string) (FieldSpec, error) {
	parts := strings.Split(tag, ",")
	spec := FieldSpec{Name: parts[0], GoField: goField, Store: true}
	if spec.Name == "" {
		spec.Name = goField
	}

	for _, opt := range parts[1:] {
		key, val, hasVal := strings.Cut(strings.TrimSpace(opt), "=")
		switch key {
		case "id":
			spec.Identity = true
		case "text":
			spec.Text = true
		case "html":
			spec.HTML = true
		case "nostore":
			spec.Store = false
		case "highlight":
			spec.Highlight = true
			spec.HighlightFragments = 1
			if hasVal {
				n, err := strconv.Atoi(val)
				if err != nil {
					return FieldSpec{}, fmt.Errorf("%w: highlight count %q", ErrInvalidSchema, val)
				}
				spec.HighlightFragments = n
			}
		case "":
		default:
			return FieldSpec{}, fmt.Errorf("%w: unknown option %q", ErrInvalidSchema, key)
		}
	}
	return spec, validateSpec(&spec)
}

func validateSpec(s *FieldSpec) error {
	switch s.Name {
	case "":
		return fmt.Errorf("%w: empty field name", ErrInvalidSchema)
	case record.TypeField, "_id", "_all":
		return fmt.Errorf("%w: field name %q is reserved", ErrInvalidSchema, s.Name)
	}
	if s.Highlight && s.HighlightFragments < 1 {
		return fmt.Errorf("%w: highlight count %d < 1", ErrInvalidSchema, s.HighlightFragments)
	}
	if s.Highlight && !s.Store {
		return fmt.Errorf("%w: highlight requires a stored field", ErrInvalidSchema)
	}
	return nil
}
