package textdex

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/kailas-cloud/textdex/internal/domain/record"
)

// Record is the engine-neutral field set an entity encodes to.
type Record = record.Record

// RecordMarshaler is implemented by types that encode themselves instead of
// going through struct tag reflection. The record's type identity is set
// before MarshalRecord is called.
type RecordMarshaler interface {
	MarshalRecord(r *Record) error
}

// RecordUnmarshaler is implemented by types that decode themselves.
type RecordUnmarshaler interface {
	UnmarshalRecord(r *Record) error
}

var (
	recordMarshalerType   = reflect.TypeFor[RecordMarshaler]()
	recordUnmarshalerType = reflect.TypeFor[RecordUnmarshaler]()
	timeType              = reflect.TypeFor[time.Time]()
)

// codec converts between structs and records using their schemaMeta.
type codec struct {
	serializer FieldSerializer
}

func (c *codec) encode(meta *schemaMeta, item any) (*Record, error) {
	v := reflect.ValueOf(item)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, fmt.Errorf("%w: nil item", ErrInvalidArgument)
		}
		v = v.Elem()
	}

	// Work on an addressable copy so pointer-receiver marshalers are found.
	if !v.CanAddr() {
		tmp := reflect.New(meta.typ).Elem()
		tmp.Set(v)
		v = tmp
	}

	r := record.New(meta.typeName)
	if meta.marshaler {
		if err := v.Addr().Interface().(RecordMarshaler).MarshalRecord(r); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
		}
		r.Type = meta.typeName
		return r, nil
	}

	for i := range meta.specs {
		spec := &meta.specs[i]
		val, ok, err := c.encodeValue(spec, v.FieldByIndex(spec.index))
		if err != nil {
			return nil, err
		}
		if ok {
			r.Add(spec.Name, val, spec.Store)
		}
	}
	return r, nil
}

// encodeValue picks the record representation of one field. Nil values are
// skipped rather than encoded.
func (c *codec) encodeValue(spec *FieldSpec, fv reflect.Value) (record.Value, bool, error) {
	for fv.Kind() == reflect.Pointer || fv.Kind() == reflect.Interface {
		if fv.IsNil() {
			return nil, false, nil
		}
		fv = fv.Elem()
	}
	if (fv.Kind() == reflect.Map || fv.Kind() == reflect.Slice) && fv.IsNil() {
		return nil, false, nil
	}

	if spec.Identity {
		s, err := identityText(fv)
		if err != nil {
			return nil, false, &FieldError{Field: spec.Name, Err: fmt.Errorf("%w: %w", ErrSerialization, err)}
		}
		return record.Keyword(s), true, nil
	}
	if fv.Type() == timeType {
		t, _ := fv.Interface().(time.Time)
		return record.Date(t.UTC()), true, nil
	}
	if tm, ok := textMarshaler(fv); ok {
		b, err := tm.MarshalText()
		if err != nil {
			return nil, false, &FieldError{Field: spec.Name, Err: fmt.Errorf("%w: %w", ErrSerialization, err)}
		}
		return record.Keyword(b), true, nil
	}

	switch fv.Kind() {
	case reflect.Int32:
		return record.Int32(fv.Int()), true, nil
	case reflect.Int, reflect.Int64:
		return record.Int64(fv.Int()), true, nil
	case reflect.Uint32:
		return record.Int64(fv.Uint()), true, nil //nolint:gosec // uint32 fits in int64
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		u := fv.Uint()
		if u > math.MaxInt64 {
			return record.Float64(u), true, nil
		}
		return record.Int64(u), true, nil
	case reflect.Int8, reflect.Int16:
		return record.Float32(fv.Int()), true, nil
	case reflect.Uint8, reflect.Uint16:
		return record.Float32(fv.Uint()), true, nil
	case reflect.Float32:
		return record.Float32(fv.Float()), true, nil
	case reflect.Float64:
		return record.Float64(fv.Float()), true, nil
	case reflect.String:
		s := fv.String()
		if spec.HTML {
			s = stripHTML(s)
		}
		if spec.Text {
			return record.Text(s), true, nil
		}
		return record.Keyword(s), true, nil
	}

	s, err := c.serializer.Serialize(fv.Interface())
	if err != nil {
		return nil, false, &FieldError{Field: spec.Name, Err: fmt.Errorf("%w: %w", ErrSerialization, err)}
	}
	return record.Keyword(s), true, nil
}

// decode fills the struct p points to from r. Fields absent from r keep
// their zero value.
func (c *codec) decode(meta *schemaMeta, r *Record, p reflect.Value) error {
	if meta.unmarshaler {
		if err := p.Interface().(RecordUnmarshaler).UnmarshalRecord(r); err != nil {
			return fmt.Errorf("%w: %w", ErrDeserialization, err)
		}
		return nil
	}

	v := p.Elem()
	for i := range meta.specs {
		spec := &meta.specs[i]
		raw, ok := r.Get(spec.Name)
		if !ok {
			continue
		}
		if err := c.setValue(v.FieldByIndex(spec.index), raw); err != nil {
			return &FieldError{Field: spec.Name, Value: raw, Err: err}
		}
	}
	return nil
}

// setValue parses raw into the addressable value v.
func (c *codec) setValue(v reflect.Value, raw string) error {
	if v.Kind() == reflect.Pointer {
		elem := reflect.New(v.Type().Elem())
		if err := c.setValue(elem.Elem(), raw); err != nil {
			return err
		}
		v.Set(elem)
		return nil
	}

	if v.Type() == timeType {
		t, err := time.ParseInLocation(record.DateLayout, raw, time.UTC)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFormat, err)
		}
		v.Set(reflect.ValueOf(t))
		return nil
	}
	if u, ok := v.Addr().Interface().(encoding.TextUnmarshaler); ok {
		if err := u.UnmarshalText([]byte(raw)); err != nil {
			return fmt.Errorf("%w: %w", ErrFormat, err)
		}
		return nil
	}

	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := parseInt(raw, v)
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := parseUint(raw, v)
		if err != nil {
			return err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, v.Type().Bits())
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFormat, err)
		}
		v.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFormat, err)
		}
		v.SetBool(b)
	default:
		if err := c.serializer.Deserialize(raw, v.Addr().Interface()); err != nil {
			return fmt.Errorf("%w: %w", ErrDeserialization, err)
		}
	}
	return nil
}
