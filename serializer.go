package textdex

import (
	"encoding/json"
	"fmt"
)

// FieldSerializer converts complex field values (structs, slices, maps,
// bools) to and from their stored text form. Implementations that also
// implement io.Closer are closed by Engine.Close.
type FieldSerializer interface {
	Serialize(v any) (string, error)
	// Deserialize decodes s into target, which is a non-nil pointer.
	Deserialize(s string, target any) error
}

// JSONSerializer is the default FieldSerializer.
type JSONSerializer struct{}

// Serialize encodes v as JSON.
func (JSONSerializer) Serialize(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("json serialize: %w", err)
	}
	return string(b), nil
}

// Deserialize decodes the JSON text s into target.
func (JSONSerializer) Deserialize(s string, target any) error {
	if err := json.Unmarshal([]byte(s), target); err != nil {
		return fmt.Errorf("json deserialize: %w", err)
	}
	return nil
}
