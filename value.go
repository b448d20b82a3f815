package gobrainz

import "strconv"

// ValueKind discriminates the variants of a Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindList
)

// String returns the kind name for diagnostics.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindList:
		return "list"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a weakly-typed decoded payload value: a tagged union of
// scalar, object and list variants. It is how unrecognized payload
// properties are preserved without runtime reflection.
type Value struct {
	Kind   ValueKind
	Bool   bool
	Number float64
	Str    string
	Object *UnhandledProperties
	List   []Value
}

// Equal reports deep equality of two values.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == other.Bool
	case KindNumber:
		return v.Number == other.Number
	case KindString:
		return v.Str == other.Str
	case KindObject:
		return v.Object.Equal(other.Object)
	case KindList:
		if len(v.List) != len(other.List) {
			return false
		}
		for i := range v.List {
			if !v.List[i].Equal(other.List[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func boolValue(b bool) Value     { return Value{Kind: KindBool, Bool: b} }
func numberValue(n float64) Value { return Value{Kind: KindNumber, Number: n} }
func stringValue(s string) Value { return Value{Kind: KindString, Str: s} }
func objectValue(o *UnhandledProperties) Value { return Value{Kind: KindObject, Object: o} }
func listValue(l []Value) Value  { return Value{Kind: KindList, List: l} }

// UnhandledProperties is an ordered mapping from property name to a
// weakly-typed decoded value. Every decoded entity carries one holding the
// payload fields its reader did not recognize; the fields are preserved,
// never discarded, so a server adding new fields cannot break this client.
type UnhandledProperties struct {
	names  []string
	values map[string]Value
}

// Set stores a value under name, appending to the order on first insert.
func (u *UnhandledProperties) Set(name string, v Value) {
	if u.values == nil {
		u.values = make(map[string]Value)
	}
	if _, exists := u.values[name]; !exists {
		u.names = append(u.names, name)
	}
	u.values[name] = v
}

// Get returns the value stored under name.
func (u *UnhandledProperties) Get(name string) (Value, bool) {
	if u == nil || u.values == nil {
		return Value{}, false
	}
	v, ok := u.values[name]
	return v, ok
}

// Len returns the number of stored properties.
func (u *UnhandledProperties) Len() int {
	if u == nil {
		return 0
	}
	return len(u.names)
}

// Names returns the property names in insertion order.
func (u *UnhandledProperties) Names() []string {
	if u == nil {
		return nil
	}
	out := make([]string, len(u.names))
	copy(out, u.names)
	return out
}

// Equal reports whether two property maps hold the same names in the same
// order with equal values.
func (u *UnhandledProperties) Equal(other *UnhandledProperties) bool {
	if u.Len() != other.Len() {
		return false
	}
	if u.Len() == 0 {
		return true
	}
	for i, name := range u.names {
		if other.names[i] != name {
			return false
		}
		if !u.values[name].Equal(other.values[name]) {
			return false
		}
	}
	return true
}
