package gobrainz

import (
	"net/url"
	"strconv"
	"strings"
)

// Format declares the payload format negotiated with the service.
type Format int

const (
	// FormatJSON requests application/json payloads.
	FormatJSON Format = iota
	// FormatXML requests application/xml payloads.
	FormatXML
)

// MIME returns the MIME type sent in the Accept header.
func (f Format) MIME() string {
	if f == FormatXML {
		return "application/xml"
	}
	return "application/json"
}

func (f Format) String() string {
	if f == FormatXML {
		return "xml"
	}
	return "json"
}

// Credential holds the user identifier and secret used to answer Digest
// challenges. It is opaque to the transport except when computing a
// Digest response.
type Credential struct {
	User     string
	Password string
}

// RequestDescriptor describes one lookup/browse/search request: an entity
// kind, an optional identifier and extra query modifiers. Immutable once
// built.
type RequestDescriptor struct {
	Kind      string
	ID        string
	Modifiers url.Values
}

// Modifier adds an extra query parameter to a request.
type Modifier func(url.Values)

// Include asks the service to inline the named sub-resources
// (e.g. "aliases", "tags", "ratings").
func Include(parts ...string) Modifier {
	return func(q url.Values) {
		q.Set("inc", strings.Join(parts, "+"))
	}
}

// Limit bounds the number of entries in a list response.
func Limit(n int) Modifier {
	return func(q url.Values) {
		q.Set("limit", strconv.Itoa(n))
	}
}

// Offset skips into a paginated list response.
func Offset(n int) Modifier {
	return func(q url.Values) {
		q.Set("offset", strconv.Itoa(n))
	}
}

// Query sets the search query of a search request.
func Query(q string) Modifier {
	return func(v url.Values) {
		v.Set("query", q)
	}
}

// Linked restricts a browse request to entities linked to the given entity,
// e.g. Linked("release", mbid) browses artists appearing on a release.
func Linked(kind, mbid string) Modifier {
	return func(q url.Values) {
		q.Set(kind, mbid)
	}
}

// WithModifier sets an arbitrary query parameter.
func WithModifier(key, value string) Modifier {
	return func(q url.Values) {
		q.Set(key, value)
	}
}

// Option represents a configuration option for New.
type Option func(*Client)
