package gobrainz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// parseJSON consumes a JSON document as a forward-only token stream and
// produces an ordered Value tree. encoding/json's map decoding would lose
// property order, which the unhandled-properties contract requires.
func parseJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	v, err := readJSONValue(dec)
	if err != nil {
		return Value{}, err
	}
	if dec.More() {
		return Value{}, fmt.Errorf("trailing data after JSON document")
	}
	return v, nil
}

func readJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return Value{}, io.ErrUnexpectedEOF
		}
		return Value{}, err
	}
	return jsonValueFromToken(dec, tok)
}

func jsonValueFromToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Value{Kind: KindNull}, nil
	case bool:
		return boolValue(t), nil
	case float64:
		return numberValue(t), nil
	case string:
		return stringValue(t), nil
	case json.Delim:
		switch t {
		case '{':
			return readJSONObject(dec)
		case '[':
			return readJSONList(dec)
		}
	}
	return Value{}, fmt.Errorf("unexpected JSON token %v", tok)
}

func readJSONObject(dec *json.Decoder) (Value, error) {
	obj := &UnhandledProperties{}
	for dec.More() {
		nameTok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		name, ok := nameTok.(string)
		if !ok {
			return Value{}, fmt.Errorf("unexpected property name token %v", nameTok)
		}
		v, err := readJSONValue(dec)
		if err != nil {
			return Value{}, err
		}
		obj.Set(name, v)
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return Value{}, err
	}
	return objectValue(obj), nil
}

func readJSONList(dec *json.Decoder) (Value, error) {
	list := []Value{}
	for dec.More() {
		v, err := readJSONValue(dec)
		if err != nil {
			return Value{}, err
		}
		list = append(list, v)
	}
	if _, err := dec.Token(); err != nil { // consume ']'
		return Value{}, err
	}
	return listValue(list), nil
}
