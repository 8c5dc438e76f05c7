package codec

import (
	"fmt"

	"github.com/google/uuid"
)

// Codec encodes and decodes one entity shape through its schema
type Codec[T any] struct {
	schema     *Schema
	toValues   func(*T) Values
	fromValues func(Values) *T
}

// Schema returns the schema the codec is driven by
func (c *Codec[T]) Schema() *Schema {
	return c.schema
}

// Encode returns the BSON document for v. v is never modified.
func (c *Codec[T]) Encode(v *T) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: %s: nil entity", ErrEncode, c.schema.Name)
	}
	return c.schema.Marshal(c.toValues(v))
}

// Decode parses a BSON document. The whole document must match the schema;
// on any mismatch the returned error wraps ErrDecode and no entity is returned.
func (c *Codec[T]) Decode(data []byte) (*T, error) {
	values, err := c.schema.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return c.fromValues(values), nil
}

// Accessors for schema-validated values; types are guaranteed by decode.

func (v Values) str(key string) string {
	s, _ := v[key].(string)
	return s
}

func (v Values) num(key string) int {
	n, _ := v[key].(int)
	return n
}

func (v Values) id(key string) uuid.UUID {
	id, _ := v[key].(uuid.UUID)
	return id
}

func (v Values) optionalID(key string) *uuid.UUID {
	id, ok := v[key].(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}

func (v Values) docs(key string) ([]Values, bool) {
	items, ok := v[key].([]Values)
	return items, ok
}
