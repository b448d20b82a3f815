package gobrainz

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
)

// Client is a read-only web service client for MusicBrainz-compatible
// metadata services. It layers request scheduling, bearer/digest
// authorization and forward-compatible payload decoding around the standard
// net/http Client. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	scheduler  *Scheduler
	registry   *ReaderRegistry
	root       string
	metrics    *MetricsCollector
	debug      *DebugConfig
	logger     Logger
	cnonce     func() string

	mu          sync.RWMutex
	format      Format
	scheme      string
	host        string
	port        int
	userAgent   string
	bearerToken string
	credential  Credential
	digestAuth  string

	validationError error
}

// New constructs a Client using the provided functional options. A best
// effort validation is performed; call IsValid / ValidationError for errors.
func New(options ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{},
		scheduler:  DefaultScheduler,
		registry:   NewReaderRegistry(),
		format:     FormatJSON,
		scheme:     "https",
		host:       "musicbrainz.org",
		root:       "ws/2",
		debug:      DefaultDebugConfig(),
		cnonce:     newCNonce,
	}

	for _, option := range options {
		option(client)
	}

	if err := client.ValidateConfiguration(); err != nil {
		client.validationError = err
	}

	return client
}

// IsValid reports whether configuration validation passed at construction.
func (c *Client) IsValid() bool {
	return c.validationError == nil
}

// ValidationError returns the configuration validation error, if any.
func (c *Client) ValidationError() error {
	return c.validationError
}

// Registry returns the client's reader registry so callers can register
// readers for additional entity kinds.
func (c *Client) Registry() *ReaderRegistry {
	return c.registry
}

// SetScheme changes the URL scheme at runtime. Calls already in flight keep
// the endpoint they started with.
func (c *Client) SetScheme(scheme string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scheme = scheme
}

// SetHost changes the service host at runtime.
func (c *Client) SetHost(host string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.host = host
}

// SetPort changes the service port at runtime. Zero uses the scheme default.
func (c *Client) SetPort(port int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.port = port
}

// SetFormat changes the negotiated payload format at runtime.
func (c *Client) SetFormat(format Format) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.format = format
}

// SetUserAgent changes the caller-supplied agent string at runtime.
func (c *Client) SetUserAgent(agent string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userAgent = agent
}

// SetBearerToken configures bearer authorization. A non-empty token takes
// precedence over digest authentication.
func (c *Client) SetBearerToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bearerToken = token
}

// SetCredentials configures the digest credential and invalidates any
// cached digest authorization computed for the previous credential.
func (c *Client) SetCredentials(user, password string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.credential = Credential{User: user, Password: password}
	c.digestAuth = ""
}

func (c *Client) snapshotEndpoint() (scheme, host string, port int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scheme, c.host, c.port
}

func (c *Client) snapshotFormat() Format {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.format
}

func (c *Client) snapshotUserAgent() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userAgent
}

func (c *Client) snapshotBearerToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bearerToken
}

func (c *Client) snapshotCredential() Credential {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.credential
}

func (c *Client) snapshotDigestAuth() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.digestAuth
}

func (c *Client) setDigestAuth(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.digestAuth = value
}

// builtinKinds use MBIDs, which are UUIDs; identifiers of custom registered
// kinds stay opaque.
var builtinKinds = map[string]bool{
	KindArtist:  true,
	KindRelease: true,
	KindWork:    true,
}

// Lookup fetches a single entity of the given kind by identifier and
// decodes it through the reader registered for that kind.
func (c *Client) Lookup(ctx context.Context, kind, id string, mods ...Modifier) (any, error) {
	if builtinKinds[kind] {
		if _, err := uuid.Parse(id); err != nil {
			return nil, &ClientError{
				Type:    ErrorTypeValidation,
				Message: fmt.Sprintf("identifier %q is not a valid MBID", id),
				Kind:    kind,
				Cause:   err,
			}
		}
	}
	return c.call(ctx, newDescriptor(kind, id, mods), kind)
}

// Browse fetches the paginated list of entities of the given kind, usually
// restricted with Linked to entities related to another entity.
func (c *Client) Browse(ctx context.Context, kind string, mods ...Modifier) (any, error) {
	return c.call(ctx, newDescriptor(kind, "", mods), kind+"-list")
}

// Search runs a query against the search endpoint of the given kind and
// returns the paginated list of matches.
func (c *Client) Search(ctx context.Context, kind, query string, mods ...Modifier) (any, error) {
	mods = append(mods, Query(query))
	return c.call(ctx, newDescriptor(kind, "", mods), kind+"-list")
}

// call runs the shared pipeline: admission, authenticated GET with bounded
// digest retry, classification, decode.
func (c *Client) call(ctx context.Context, desc RequestDescriptor, rootKind string) (any, error) {
	var requestID string
	if c.debugEnabled() && c.debug.RequestIDGen != nil {
		requestID = c.debug.RequestIDGen()
	}
	if c.metrics != nil {
		c.metrics.RecordRequestStart(desc.Kind)
		defer c.metrics.RecordRequestEnd(desc.Kind)
	}

	body, err := c.execute(ctx, desc, requestID)
	if err != nil {
		c.recordFailure(desc.Kind, err)
		return nil, err
	}

	entity, err := c.registry.Decode(c.snapshotFormat(), rootKind, body)
	if err != nil {
		if c.metrics != nil {
			c.metrics.RecordDecodeError(desc.Kind)
		}
		c.recordFailure(desc.Kind, err)
		return nil, err
	}

	if c.debugEnabled() && c.debug.LogRequests {
		c.logger.Debug("Request completed", "requestID", requestID, "kind", desc.Kind)
	}
	return entity, nil
}

func (c *Client) recordFailure(kind string, err error) {
	if c.debugEnabled() {
		c.logger.Warn("Request failed", "kind", kind, "error", err.Error())
	}
	if c.metrics == nil {
		return
	}
	var ce *ClientError
	if errors.As(err, &ce) {
		c.metrics.RecordError(ce.Type, kind)
		return
	}
	c.metrics.RecordError("Unknown", kind)
}

// typedEntity narrows a registry result to the wrapper's concrete type.
// A caller-replaced builtin reader may return something else; that is a
// decode failure, not a panic.
func typedEntity[T any](kind string, entity any, err error) (T, error) {
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := entity.(T)
	if !ok {
		var zero T
		return zero, &ClientError{
			Type:    ErrorTypeDecode,
			Message: fmt.Sprintf("reader for kind %q returned %T", kind, entity),
			Kind:    kind,
		}
	}
	return typed, nil
}

// LookupArtist fetches an artist by MBID.
func (c *Client) LookupArtist(ctx context.Context, mbid string, mods ...Modifier) (*Artist, error) {
	entity, err := c.Lookup(ctx, KindArtist, mbid, mods...)
	return typedEntity[*Artist](KindArtist, entity, err)
}

// LookupRelease fetches a release by MBID.
func (c *Client) LookupRelease(ctx context.Context, mbid string, mods ...Modifier) (*Release, error) {
	entity, err := c.Lookup(ctx, KindRelease, mbid, mods...)
	return typedEntity[*Release](KindRelease, entity, err)
}

// LookupWork fetches a work by MBID.
func (c *Client) LookupWork(ctx context.Context, mbid string, mods ...Modifier) (*Work, error) {
	entity, err := c.Lookup(ctx, KindWork, mbid, mods...)
	return typedEntity[*Work](KindWork, entity, err)
}

// BrowseArtists browses artists, usually restricted with Linked.
func (c *Client) BrowseArtists(ctx context.Context, mods ...Modifier) (*ArtistList, error) {
	entity, err := c.Browse(ctx, KindArtist, mods...)
	return typedEntity[*ArtistList](KindArtist+"-list", entity, err)
}

// BrowseReleases browses releases, usually restricted with Linked.
func (c *Client) BrowseReleases(ctx context.Context, mods ...Modifier) (*ReleaseList, error) {
	entity, err := c.Browse(ctx, KindRelease, mods...)
	return typedEntity[*ReleaseList](KindRelease+"-list", entity, err)
}

// BrowseWorks browses works, usually restricted with Linked.
func (c *Client) BrowseWorks(ctx context.Context, mods ...Modifier) (*WorkList, error) {
	entity, err := c.Browse(ctx, KindWork, mods...)
	return typedEntity[*WorkList](KindWork+"-list", entity, err)
}

// SearchArtists searches artists by Lucene query.
func (c *Client) SearchArtists(ctx context.Context, query string, mods ...Modifier) (*ArtistList, error) {
	entity, err := c.Search(ctx, KindArtist, query, mods...)
	return typedEntity[*ArtistList](KindArtist+"-list", entity, err)
}

// SearchReleases searches releases by Lucene query.
func (c *Client) SearchReleases(ctx context.Context, query string, mods ...Modifier) (*ReleaseList, error) {
	entity, err := c.Search(ctx, KindRelease, query, mods...)
	return typedEntity[*ReleaseList](KindRelease+"-list", entity, err)
}

// SearchWorks searches works by Lucene query.
func (c *Client) SearchWorks(ctx context.Context, query string, mods ...Modifier) (*WorkList, error) {
	entity, err := c.Search(ctx, KindWork, query, mods...)
	return typedEntity[*WorkList](KindWork+"-list", entity, err)
}
