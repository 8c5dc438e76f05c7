// Package codec converts entities to self-describing BSON documents and back.
//
// Every entity shape is described by an explicit Schema: the ordered list of
// fields, their types, whether they may be absent, and the symbol tables of
// enum fields. Encoding and decoding are both driven by the schema, so a
// document either matches it exactly or fails to decode as a whole.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errors
var (
	ErrEncode = errors.New("document encode failed")
	ErrDecode = errors.New("document decode failed")
)

// FieldType is the logical type of a schema field
type FieldType int

const (
	TypeString        FieldType = iota // BSON string
	TypeInt                            // non-negative BSON int32 (int64 accepted on decode)
	TypeUUID                           // BSON binary, subtype 4
	TypeEnum                           // BSON string holding the enum symbol
	TypeDocumentArray                  // BSON array of embedded documents
)

func (t FieldType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeUUID:
		return "uuid"
	case TypeEnum:
		return "enum"
	case TypeDocumentArray:
		return "document array"
	default:
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
}

// Field describes a single document field
type Field struct {
	Name     string
	Type     FieldType
	Optional bool       // absent key is allowed and means "unset"
	Enum     *EnumTable // required for TypeEnum
	Elem     *Schema    // required for TypeDocumentArray
}

// Values holds decoded or to-be-encoded field values keyed by field name.
//
// Go types per field type: TypeString string, TypeInt int, TypeUUID uuid.UUID,
// TypeEnum int (the ordinal), TypeDocumentArray []Values. A missing key is an
// absent field.
type Values map[string]any

// Schema is an ordered list of fields describing one document shape
type Schema struct {
	Name   string
	Fields []Field
	index  map[string]int
}

// NewSchema creates a schema; it panics on duplicate or malformed fields
// since schemas are package-level declarations.
func NewSchema(name string, fields ...Field) *Schema {
	s := &Schema{
		Name:   name,
		Fields: fields,
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if _, dup := s.index[f.Name]; dup {
			panic(fmt.Sprintf("codec: schema %s: duplicate field %q", name, f.Name))
		}
		if f.Type == TypeEnum && f.Enum == nil {
			panic(fmt.Sprintf("codec: schema %s: enum field %q has no table", name, f.Name))
		}
		if f.Type == TypeDocumentArray && f.Elem == nil {
			panic(fmt.Sprintf("codec: schema %s: array field %q has no element schema", name, f.Name))
		}
		s.index[f.Name] = i
	}
	return s
}

// Field returns the named field
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.Fields[i], true
}

// Marshal encodes values into a BSON document
func (s *Schema) Marshal(values Values) ([]byte, error) {
	doc, err := s.encode(values, s.Name)
	if err != nil {
		return nil, err
	}
	data, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEncode, s.Name, err)
	}
	return data, nil
}

// Unmarshal decodes and validates a BSON document against the schema
func (s *Schema) Unmarshal(data []byte) (Values, error) {
	if len(data) < 5 {
		return nil, decodeErr(s.Name, "document too short (%d bytes)", len(data))
	}
	if n := binary.LittleEndian.Uint32(data[:4]); int64(n) != int64(len(data)) {
		return nil, decodeErr(s.Name, "length prefix %d does not match %d bytes", n, len(data))
	}
	raw := bson.Raw(data)
	if err := raw.Validate(); err != nil {
		return nil, decodeErr(s.Name, "malformed document: %v", err)
	}
	return s.decode(raw, s.Name)
}

func (s *Schema) encode(values Values, path string) (bson.D, error) {
	for key := range values {
		if _, ok := s.index[key]; !ok {
			return nil, encodeErr(path, "unknown field %q", key)
		}
	}

	doc := make(bson.D, 0, len(s.Fields))
	for _, f := range s.Fields {
		v, ok := values[f.Name]
		if !ok || v == nil {
			if f.Optional {
				continue
			}
			return nil, encodeErr(path+"."+f.Name, "required field missing")
		}
		bv, err := f.encodeValue(v, path+"."+f.Name)
		if err != nil {
			return nil, err
		}
		doc = append(doc, bson.E{Key: f.Name, Value: bv})
	}
	return doc, nil
}

func (f Field) encodeValue(v any, path string) (any, error) {
	switch f.Type {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, encodeErr(path, "expected string, got %T", v)
		}
		return s, nil

	case TypeInt:
		n, ok := v.(int)
		if !ok {
			return nil, encodeErr(path, "expected int, got %T", v)
		}
		if n < 0 || n > math.MaxInt32 {
			return nil, encodeErr(path, "value %d out of range", n)
		}
		return int32(n), nil

	case TypeUUID:
		id, ok := v.(uuid.UUID)
		if !ok {
			return nil, encodeErr(path, "expected uuid, got %T", v)
		}
		data := make([]byte, len(id))
		copy(data, id[:])
		return primitive.Binary{Subtype: bsontype.BinaryUUID, Data: data}, nil

	case TypeEnum:
		n, ok := v.(int)
		if !ok {
			return nil, encodeErr(path, "expected enum ordinal, got %T", v)
		}
		name, ok := f.Enum.Name(n)
		if !ok {
			return nil, encodeErr(path, "%d is not a %s value", n, f.Enum.Type())
		}
		return name, nil

	case TypeDocumentArray:
		items, ok := v.([]Values)
		if !ok {
			return nil, encodeErr(path, "expected []Values, got %T", v)
		}
		arr := make(bson.A, 0, len(items))
		for i, item := range items {
			doc, err := f.Elem.encode(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			arr = append(arr, doc)
		}
		return arr, nil

	default:
		return nil, encodeErr(path, "unsupported field type %s", f.Type)
	}
}

func (s *Schema) decode(doc bson.Raw, path string) (Values, error) {
	elems, err := doc.Elements()
	if err != nil {
		return nil, decodeErr(path, "malformed document: %v", err)
	}

	values := make(Values, len(elems))
	for _, elem := range elems {
		key := elem.Key()
		i, ok := s.index[key]
		if !ok {
			return nil, decodeErr(path, "unknown field %q", key)
		}
		if _, dup := values[key]; dup {
			return nil, decodeErr(path, "duplicate field %q", key)
		}
		v, err := s.Fields[i].decodeValue(elem.Value(), path+"."+key)
		if err != nil {
			return nil, err
		}
		values[key] = v
	}

	for _, f := range s.Fields {
		if _, ok := values[f.Name]; !ok && !f.Optional {
			return nil, decodeErr(path+"."+f.Name, "required field missing")
		}
	}
	return values, nil
}

func (f Field) decodeValue(rv bson.RawValue, path string) (any, error) {
	switch f.Type {
	case TypeString:
		s, ok := rv.StringValueOK()
		if !ok {
			return nil, typeMismatch(path, f.Type, rv.Type)
		}
		return s, nil

	case TypeInt:
		var n int64
		switch rv.Type {
		case bsontype.Int32:
			v, _ := rv.Int32OK()
			n = int64(v)
		case bsontype.Int64:
			v, _ := rv.Int64OK()
			n = v
		default:
			return nil, typeMismatch(path, f.Type, rv.Type)
		}
		if n < 0 || n > math.MaxInt32 {
			return nil, decodeErr(path, "value %d out of range", n)
		}
		return int(n), nil

	case TypeUUID:
		subtype, data, ok := rv.BinaryOK()
		if !ok {
			return nil, typeMismatch(path, f.Type, rv.Type)
		}
		if subtype != bsontype.BinaryUUID {
			return nil, decodeErr(path, "binary subtype 0x%02x is not a uuid", subtype)
		}
		id, err := uuid.FromBytes(data)
		if err != nil {
			return nil, decodeErr(path, "invalid uuid: %v", err)
		}
		return id, nil

	case TypeEnum:
		name, ok := rv.StringValueOK()
		if !ok {
			return nil, typeMismatch(path, f.Type, rv.Type)
		}
		n, ok := f.Enum.Value(name)
		if !ok {
			return nil, decodeErr(path, "unknown %s value %q", f.Enum.Type(), name)
		}
		return n, nil

	case TypeDocumentArray:
		arr, ok := rv.ArrayOK()
		if !ok {
			return nil, typeMismatch(path, f.Type, rv.Type)
		}
		elems, err := arr.Values()
		if err != nil {
			return nil, decodeErr(path, "malformed array: %v", err)
		}
		items := make([]Values, 0, len(elems))
		for i, elem := range elems {
			itemPath := fmt.Sprintf("%s[%d]", path, i)
			doc, ok := elem.DocumentOK()
			if !ok {
				return nil, typeMismatch(itemPath, TypeDocumentArray, elem.Type)
			}
			item, err := f.Elem.decode(doc, itemPath)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil

	default:
		return nil, decodeErr(path, "unsupported field type %s", f.Type)
	}
}

func encodeErr(path, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrEncode, path, fmt.Sprintf(format, args...))
}

func decodeErr(path, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrDecode, path, fmt.Sprintf(format, args...))
}

func typeMismatch(path string, want FieldType, got bsontype.Type) error {
	return decodeErr(path, "expected %s, got BSON %s", want, got)
}
