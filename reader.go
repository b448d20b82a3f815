package gobrainz

import (
	"fmt"
	"strconv"
)

// propertyFunc consumes one named property of an object under decode.
// It returns false when the name is not recognized, in which case the
// property is preserved in the entity's unhandled-properties map.
type propertyFunc func(name string, v Value) (handled bool, err error)

// walkObject iterates the properties of an object Value in payload order,
// dispatching each to fn. Unrecognized properties land in unhandled; a
// failure while decoding a property is wrapped with that property's name.
func walkObject(v Value, fn propertyFunc, unhandled *UnhandledProperties) error {
	if v.Kind != KindObject {
		return &ClientError{
			Type:    ErrorTypeDecode,
			Message: fmt.Sprintf("expected object, got %s", v.Kind),
		}
	}
	for _, name := range v.Object.Names() {
		pv, _ := v.Object.Get(name)
		handled, err := fn(name, pv)
		if err != nil {
			return decodeError(name, err)
		}
		if !handled {
			unhandled.Set(name, pv)
		}
	}
	return nil
}

// requireID enforces a shape's designated identifying field. Its absence is
// a hard decode failure because every downstream consumer keys on it.
func requireID(field, got string) error {
	if got == "" {
		return &ClientError{
			Type:     ErrorTypeDecode,
			Message:  "required field missing",
			Property: field,
		}
	}
	return nil
}

// asString decodes a scalar as text. Numbers and booleans are rendered
// rather than rejected: the service may reshape a field the client predates.
func asString(v Value) (string, error) {
	switch v.Kind {
	case KindString:
		return v.Str, nil
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64), nil
	case KindBool:
		return strconv.FormatBool(v.Bool), nil
	case KindNull:
		return "", nil
	default:
		return "", fmt.Errorf("expected scalar, got %s", v.Kind)
	}
}

// optString decodes an optional text field. A null leaves dst absent.
func optString(v Value, dst **string) error {
	if v.Kind == KindNull {
		return nil
	}
	s, err := asString(v)
	if err != nil {
		return err
	}
	*dst = &s
	return nil
}

// optBool decodes an optional boolean. XML payloads deliver booleans as
// text, so "true"/"false" strings are accepted.
func optBool(v Value, dst **bool) error {
	switch v.Kind {
	case KindNull:
		return nil
	case KindBool:
		b := v.Bool
		*dst = &b
		return nil
	case KindString:
		b, err := strconv.ParseBool(v.Str)
		if err != nil {
			return fmt.Errorf("expected boolean, got %q", v.Str)
		}
		*dst = &b
		return nil
	default:
		return fmt.Errorf("expected boolean, got %s", v.Kind)
	}
}

// optInt decodes an optional integer. XML payloads deliver numbers as text.
func optInt(v Value, dst **int) error {
	switch v.Kind {
	case KindNull:
		return nil
	case KindNumber:
		n := int(v.Number)
		*dst = &n
		return nil
	case KindString:
		n, err := strconv.Atoi(v.Str)
		if err != nil {
			return fmt.Errorf("expected integer, got %q", v.Str)
		}
		*dst = &n
		return nil
	default:
		return fmt.Errorf("expected integer, got %s", v.Kind)
	}
}

// optFloat decodes an optional floating point number.
func optFloat(v Value, dst **float64) error {
	switch v.Kind {
	case KindNull:
		return nil
	case KindNumber:
		f := v.Number
		*dst = &f
		return nil
	case KindString:
		f, err := strconv.ParseFloat(v.Str, 64)
		if err != nil {
			return fmt.Errorf("expected number, got %q", v.Str)
		}
		*dst = &f
		return nil
	default:
		return fmt.Errorf("expected number, got %s", v.Kind)
	}
}

// decodeList decodes a homogeneous list by delegating each element to elem.
// A single object where a list was expected is accepted as a one-element
// list; XML payloads cannot distinguish the two.
func decodeList[T any](v Value, elem func(Value) (T, error)) ([]T, error) {
	items := v.List
	if v.Kind != KindList {
		if v.Kind == KindNull {
			return nil, nil
		}
		items = []Value{v}
	}
	out := make([]T, 0, len(items))
	for i, item := range items {
		e, err := elem(item)
		if err != nil {
			return nil, decodeError(strconv.Itoa(i), err)
		}
		out = append(out, e)
	}
	return out, nil
}

// decodeStringList decodes a list of scalars as text.
func decodeStringList(v Value) ([]string, error) {
	return decodeList(v, asString)
}
