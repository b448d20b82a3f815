package gobrainz

import (
	"errors"
	"fmt"
	"sync"
)

// EntityReader decodes the root shape of one entity kind from a weakly-typed
// payload value.
type EntityReader func(Value) (any, error)

// ReaderRegistry maps entity kind tags to their root readers. It is safe
// for concurrent use; custom kinds may be registered at runtime to extend
// the client without forking it.
type ReaderRegistry struct {
	mu      sync.RWMutex
	readers map[string]EntityReader
}

// NewReaderRegistry creates a registry pre-populated with the built-in
// entity and list readers.
func NewReaderRegistry() *ReaderRegistry {
	r := &ReaderRegistry{readers: make(map[string]EntityReader)}
	r.Register(KindArtist, func(v Value) (any, error) { return readArtist(v) })
	r.Register(KindRelease, func(v Value) (any, error) { return readRelease(v) })
	r.Register(KindWork, func(v Value) (any, error) { return readWork(v) })
	r.Register(KindArtist+"-list", func(v Value) (any, error) { return readArtistList(v) })
	r.Register(KindRelease+"-list", func(v Value) (any, error) { return readReleaseList(v) })
	r.Register(KindWork+"-list", func(v Value) (any, error) { return readWorkList(v) })
	return r
}

// Register installs (or replaces) the reader for a kind.
func (r *ReaderRegistry) Register(kind string, reader EntityReader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readers[kind] = reader
}

// Reader returns the reader registered for kind.
func (r *ReaderRegistry) Reader(kind string) (EntityReader, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reader, ok := r.readers[kind]
	return reader, ok
}

// Decode parses data in the declared format and dispatches to the reader
// registered for the root kind. Decode failures are classified and carry
// the offending property path.
func (r *ReaderRegistry) Decode(format Format, kind string, data []byte) (any, error) {
	reader, ok := r.Reader(kind)
	if !ok {
		return nil, &ClientError{
			Type:    ErrorTypeDecode,
			Message: fmt.Sprintf("no reader registered for kind %q", kind),
			Kind:    kind,
		}
	}

	var (
		v   Value
		err error
	)
	switch format {
	case FormatXML:
		v, err = parseXML(data)
		if err == nil {
			v = unwrapMetadata(v, kind)
		}
	default:
		v, err = parseJSON(data)
	}
	if err != nil {
		return nil, &ClientError{
			Type:    ErrorTypeDecode,
			Message: fmt.Sprintf("malformed %s payload", format),
			Kind:    kind,
			Cause:   err,
		}
	}

	entity, err := reader(v)
	if err != nil {
		var ce *ClientError
		if errors.As(err, &ce) {
			if ce.Kind == "" {
				ce.Kind = kind
			}
			return nil, err
		}
		return nil, &ClientError{
			Type:    ErrorTypeDecode,
			Message: "cannot decode payload",
			Kind:    kind,
			Cause:   err,
		}
	}
	return entity, nil
}
