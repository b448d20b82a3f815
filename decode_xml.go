package gobrainz

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// parseXML consumes an XML document and produces the same Value shape the
// JSON decoder yields, so every entity reader serves both payload formats:
//
//   - attributes become properties named after the attribute
//   - child elements become properties named after the element
//   - a repeated child element name coalesces into a list property
//   - an element with neither attributes nor children becomes its text
func parseXML(data []byte) (Value, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return Value{}, io.ErrUnexpectedEOF
			}
			return Value{}, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return readXMLElement(dec, start)
		}
	}
}

// unwrapMetadata strips the <metadata> document envelope the service wraps
// every XML response in, exposing the kind-named element inside it. Search
// envelopes also carry a created attribute, so siblings are tolerated.
func unwrapMetadata(v Value, kind string) Value {
	if v.Kind == KindObject {
		if inner, ok := v.Object.Get(kind); ok && inner.Kind == KindObject {
			return inner
		}
	}
	return v
}

func readXMLElement(dec *xml.Decoder, start xml.StartElement) (Value, error) {
	obj := &UnhandledProperties{}
	for _, attr := range start.Attr {
		if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" {
			continue
		}
		obj.Set(attr.Name.Local, stringValue(attr.Value))
	}

	var text strings.Builder
	hasChildren := false
	for {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			hasChildren = true
			child, err := readXMLElement(dec, t)
			if err != nil {
				return Value{}, err
			}
			appendXMLProperty(obj, t.Name.Local, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if trimmed := strings.TrimSpace(text.String()); trimmed != "" {
				if obj.Len() == 0 && !hasChildren {
					return stringValue(trimmed), nil
				}
				obj.Set("#text", stringValue(trimmed))
			}
			return objectValue(obj), nil
		}
	}
}

// appendXMLProperty stores child under name, turning repeated element names
// into a list property.
func appendXMLProperty(obj *UnhandledProperties, name string, child Value) {
	existing, ok := obj.Get(name)
	if !ok {
		obj.Set(name, child)
		return
	}
	if existing.Kind == KindList {
		obj.Set(name, listValue(append(existing.List, child)))
		return
	}
	obj.Set(name, listValue([]Value{existing, child}))
}
