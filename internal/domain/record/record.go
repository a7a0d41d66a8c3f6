// Package record defines the engine-neutral field set an entity is encoded to
// before it reaches the full-text backend.
package record

import (
	"strconv"
	"time"
)

// TypeField is the reserved field carrying the originating Go type identity.
const TypeField = "_type"

// DateLayout is the verbatim layout dates are indexed with.
const DateLayout = "2006-01-02 15:04:05"

// Value is a typed field value: Text, Keyword, Int32, Int64, Float32,
// Float64 or Date.
type Value interface {
	// String renders the value the way it reads back from a stored field.
	String() string
	isValue()
}

// Text is tokenized by the active analyzer.
type Text string

// Keyword is indexed verbatim as a single exact-match term.
type Keyword string

// Int32 is a 32-bit numeric value.
type Int32 int32

// Int64 is a 64-bit numeric value.
type Int64 int64

// Float32 is a 32-bit floating point numeric value.
type Float32 float32

// Float64 is a 64-bit floating point numeric value.
type Float64 float64

// Date is indexed as an exact-match term formatted with DateLayout.
type Date time.Time

func (v Text) String() string    { return string(v) }
func (v Keyword) String() string { return string(v) }
func (v Int32) String() string   { return strconv.FormatInt(int64(v), 10) }
func (v Int64) String() string   { return strconv.FormatInt(int64(v), 10) }
func (v Float32) String() string { return strconv.FormatFloat(float64(v), 'f', -1, 32) }
func (v Float64) String() string { return strconv.FormatFloat(float64(v), 'f', -1, 64) }
func (v Date) String() string    { return time.Time(v).Format(DateLayout) }

func (Text) isValue()    {}
func (Keyword) isValue() {}
func (Int32) isValue()   {}
func (Int64) isValue()   {}
func (Float32) isValue() {}
func (Float64) isValue() {}
func (Date) isValue()    {}

// IsNumeric reports whether v is indexed as a number.
func IsNumeric(v Value) bool {
	switch v.(type) {
	case Int32, Int64, Float32, Float64:
		return true
	}
	return false
}

// Float returns the numeric value of v as float64.
func Float(v Value) (float64, bool) {
	switch n := v.(type) {
	case Int32:
		return float64(n), true
	case Int64:
		return float64(n), true
	case Float32:
		return float64(n), true
	case Float64:
		return float64(n), true
	}
	return 0, false
}

// Field is one named value in a record.
type Field struct {
	Name  string
	Value Value
	Store bool
}

// Record is an ordered field set plus the originating type identity.
// Records are built per encode call and are not retained.
type Record struct {
	Type   string
	fields []Field
}

// New creates an empty record for the given type identity.
func New(typ string) *Record {
	return &Record{Type: typ}
}

// Add appends a field. Duplicate names are kept in order.
func (r *Record) Add(name string, v Value, store bool) {
	r.fields = append(r.fields, Field{Name: name, Value: v, Store: store})
}

// Fields returns the fields in insertion order.
func (r *Record) Fields() []Field {
	return r.fields
}

// Len returns the number of fields, excluding the type identity.
func (r *Record) Len() int {
	return len(r.fields)
}

// Lookup returns the first value stored under name.
func (r *Record) Lookup(name string) (Value, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Get returns the raw text of the first value stored under name.
func (r *Record) Get(name string) (string, bool) {
	v, ok := r.Lookup(name)
	if !ok {
		return "", false
	}
	return v.String(), true
}

// FromStored rebuilds a record from the stored fields a backend returns.
// Strings come back as Keyword and numbers as Float64; only their text form
// matters for decoding.
func FromStored(fields map[string]any) *Record {
	r := &Record{}
	for name, raw := range fields {
		if name == TypeField {
			if s, ok := raw.(string); ok {
				r.Type = s
			}
			continue
		}
		if v, ok := storedValue(raw); ok {
			r.Add(name, v, true)
		}
	}
	return r
}

func storedValue(raw any) (Value, bool) {
	switch v := raw.(type) {
	case string:
		return Keyword(v), true
	case float64:
		return Float64(v), true
	case []any:
		// Multi-valued fields decode from their first value.
		if len(v) == 0 {
			return nil, false
		}
		return storedValue(v[0])
	}
	return nil, false
}
