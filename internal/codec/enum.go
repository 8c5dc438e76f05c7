package codec

import "fmt"

// EnumTable maps enum ordinals to their symbolic names and back
type EnumTable struct {
	typeName string
	names    []string
	values   map[string]int
}

// NewEnumTable creates a table where names[i] is the symbol for ordinal i
func NewEnumTable(typeName string, names ...string) *EnumTable {
	t := &EnumTable{
		typeName: typeName,
		names:    names,
		values:   make(map[string]int, len(names)),
	}
	for i, name := range names {
		if _, dup := t.values[name]; dup {
			panic(fmt.Sprintf("codec: enum %s: duplicate symbol %q", typeName, name))
		}
		t.values[name] = i
	}
	return t
}

// EnumTableOf builds a table from an ordered list of enum values
func EnumTableOf[E interface {
	~int
	fmt.Stringer
}](typeName string, values []E) *EnumTable {
	names := make([]string, len(values))
	for i, v := range values {
		if int(v) != i {
			panic(fmt.Sprintf("codec: enum %s: value %s has ordinal %d, expected %d", typeName, v, int(v), i))
		}
		names[i] = v.String()
	}
	return NewEnumTable(typeName, names...)
}

// Type returns the enum type name
func (t *EnumTable) Type() string {
	return t.typeName
}

// Name returns the symbol for an ordinal
func (t *EnumTable) Name(v int) (string, bool) {
	if v < 0 || v >= len(t.names) {
		return "", false
	}
	return t.names[v], true
}

// Value returns the ordinal for a symbol
func (t *EnumTable) Value(name string) (int, bool) {
	v, ok := t.values[name]
	return v, ok
}

// Names returns the symbols in ordinal order
func (t *EnumTable) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}
