package gobrainz

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"
)

const (
	testMBID        = "5b11f4ce-a62d-471e-81fc-a69a8278c7da"
	contentTypeJSON = "application/json"
	artistBody      = `{"id":"` + testMBID + `","name":"Nirvana","foo":42}`
)

// newTestClient points a client with no request delay at an httptest server.
func newTestClient(t *testing.T, server *httptest.Server, options ...Option) *Client {
	t.Helper()
	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("Failed to parse server URL: %v", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("Failed to parse server port: %v", err)
	}
	options = append([]Option{
		WithScheme("http"),
		WithHost(u.Hostname()),
		WithPort(port),
		WithUserAgent("gobrainz-test/1.0"),
		WithRequestDelay(0),
	}, options...)
	return New(options...)
}

func TestNew(t *testing.T) {
	client := New(WithUserAgent("test/1.0"))

	if client == nil {
		t.Fatal("New() returned nil")
	}
	if client.scheme != "https" {
		t.Errorf("Expected default scheme https, got %q", client.scheme)
	}
	if client.host != "musicbrainz.org" {
		t.Errorf("Expected default host musicbrainz.org, got %q", client.host)
	}
	if client.format != FormatJSON {
		t.Errorf("Expected default format JSON, got %v", client.format)
	}
	if !client.IsValid() {
		t.Errorf("Expected valid default configuration, got %v", client.ValidationError())
	}
}

func TestLookupArtistDecodesUnknownField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("Expected GET method, got %s", r.Method)
		}
		wantPath := "/ws/2/artist/" + testMBID
		if r.URL.Path != wantPath {
			t.Errorf("Expected path %s, got %s", wantPath, r.URL.Path)
		}
		if accept := r.Header.Get("Accept"); accept != contentTypeJSON {
			t.Errorf("Expected Accept %s, got %s", contentTypeJSON, accept)
		}
		ua := r.Header.Get("User-Agent")
		if !strings.HasPrefix(ua, "gobrainz-test/1.0 gobrainz/v") {
			t.Errorf("Expected combined user agent, got %q", ua)
		}
		w.Header().Set("Content-Type", contentTypeJSON)
		fmt.Fprint(w, artistBody)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	artist, err := client.LookupArtist(context.Background(), testMBID)
	if err != nil {
		t.Fatalf("LookupArtist failed: %v", err)
	}

	if artist.Name == nil || *artist.Name != "Nirvana" {
		t.Errorf("Expected Name=Nirvana, got %v", artist.Name)
	}
	foo, ok := artist.Unhandled.Get("foo")
	if !ok || foo.Number != 42 {
		t.Errorf("Expected UnhandledProperties foo=42, got %v (present=%v)", foo, ok)
	}
}

func TestLookupRejectsInvalidMBID(t *testing.T) {
	client := New(WithUserAgent("test/1.0"))

	_, err := client.LookupArtist(context.Background(), "not-a-uuid")
	if err == nil {
		t.Fatal("Expected validation error")
	}
	var want = &ClientError{Type: ErrorTypeValidation}
	ce, ok := err.(*ClientError)
	if !ok || !ce.Is(want) {
		t.Errorf("Expected validation failure, got %v", err)
	}
}

func TestLookupModifiersOnQueryString(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if inc := r.URL.Query().Get("inc"); inc != "aliases+tags" {
			t.Errorf("Expected inc=aliases+tags, got %q", inc)
		}
		w.Header().Set("Content-Type", contentTypeJSON)
		fmt.Fprint(w, artistBody)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	if _, err := client.LookupArtist(context.Background(), testMBID, Include("aliases", "tags")); err != nil {
		t.Fatalf("LookupArtist failed: %v", err)
	}
}

func TestEmptyResponseBodyIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.LookupArtist(context.Background(), testMBID)
	if !IsEmptyResponse(err) {
		t.Errorf("Expected EmptyResponse error, got %v", err)
	}
}

func TestServiceErrorBodyDecoded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeJSON)
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"Not Found","help":"For usage, please see..."}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.LookupArtist(context.Background(), testMBID)
	if !IsServiceError(err) {
		t.Fatalf("Expected ServiceError, got %v", err)
	}
	if !strings.Contains(err.Error(), "Not Found") {
		t.Errorf("Expected service message in error, got %v", err)
	}
}

func TestErrorStatusWithoutServiceBodyIsTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "<html>upstream broke</html>")
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.LookupArtist(context.Background(), testMBID)
	if !IsTransportFailure(err) {
		t.Errorf("Expected transport failure for non-service error body, got %v", err)
	}
}

func TestNetworkErrorIsTransportFailure(t *testing.T) {
	client := New(
		WithScheme("http"),
		WithHost("127.0.0.1"),
		WithPort(1), // nothing listens here
		WithUserAgent("test/1.0"),
		WithRequestDelay(0),
	)

	_, err := client.LookupArtist(context.Background(), testMBID)
	if !IsTransportFailure(err) {
		t.Errorf("Expected transport failure, got %v", err)
	}
}

// digestArtistServer answers with a digest challenge until the request
// carries a verifiable digest authorization for cred.
func digestArtistServer(t *testing.T, cred Credential, unauthorized *int) *httptest.Server {
	t.Helper()
	const (
		realm = "musicbrainz.org"
		nonce = "fe9a3ae5b96eafc3467e8b4e4e1cf17e"
	)
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if strings.HasPrefix(auth, "Digest ") {
			params := parseChallengeParams(strings.TrimPrefix(auth, "Digest "))
			ha1 := md5Hex(cred.User + ":" + realm + ":" + cred.Password)
			ha2 := md5Hex("GET:" + params["uri"])
			want := md5Hex(strings.Join([]string{ha1, nonce, params["nc"], params["cnonce"], params["qop"], ha2}, ":"))
			if params["response"] == want {
				w.Header().Set("Content-Type", contentTypeJSON)
				fmt.Fprint(w, artistBody)
				return
			}
		}
		*unauthorized++
		w.Header().Set("WWW-Authenticate",
			fmt.Sprintf(`Digest realm=%q, nonce=%q, algorithm=MD5, qop="auth"`, realm, nonce))
		w.WriteHeader(http.StatusUnauthorized)
	}))
}

func TestDigestChallengeRetrySucceeds(t *testing.T) {
	cred := Credential{User: "alice", Password: "s3cret"}
	unauthorized := 0
	server := digestArtistServer(t, cred, &unauthorized)
	defer server.Close()

	client := newTestClient(t, server, WithCredentials(cred.User, cred.Password))

	artist, err := client.LookupArtist(context.Background(), testMBID)
	if err != nil {
		t.Fatalf("LookupArtist failed: %v", err)
	}
	if artist.ID != testMBID {
		t.Errorf("Expected decoded artist, got %+v", artist)
	}
	if unauthorized != 1 {
		t.Errorf("Expected exactly one challenge round trip, got %d", unauthorized)
	}
	if client.snapshotDigestAuth() == "" {
		t.Error("Expected digest cache populated after successful retry")
	}

	// A second call attaches the cached value preemptively; the server
	// accepts it without another challenge.
	if _, err := client.LookupArtist(context.Background(), testMBID); err != nil {
		t.Fatalf("second LookupArtist failed: %v", err)
	}
	if unauthorized != 1 {
		t.Errorf("Expected preemptive digest authorization to avoid a challenge, got %d challenges", unauthorized)
	}
}

func TestSecondChallengeWithinOneCallIsFatal(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("WWW-Authenticate",
			`Digest realm="musicbrainz.org", nonce="abc", algorithm=MD5, qop="auth"`)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(t, server, WithCredentials("alice", "wrong"))

	_, err := client.LookupArtist(context.Background(), testMBID)
	if !IsAuthenticationFailure(err) {
		t.Fatalf("Expected authentication failure, got %v", err)
	}
	if calls != 2 {
		t.Errorf("Expected exactly two round trips (challenge + one retry), got %d", calls)
	}
}

func TestChallengeWithoutCredentialsIsFatal(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("WWW-Authenticate", `Digest realm="r", nonce="n"`)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(t, server)

	_, err := client.LookupArtist(context.Background(), testMBID)
	if !IsAuthenticationFailure(err) {
		t.Fatalf("Expected authentication failure, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected no retry without credentials, got %d round trips", calls)
	}
}

func TestBearerTokenPrecedence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth != "Bearer tok-123" {
			t.Errorf("Expected bearer authorization, got %q", auth)
		}
		if strings.Contains(auth, "Digest") {
			t.Error("Expected no digest header when bearer is configured")
		}
		w.Header().Set("Content-Type", contentTypeJSON)
		fmt.Fprint(w, artistBody)
	}))
	defer server.Close()

	// Both a bearer token and a credential configured: bearer must win.
	client := newTestClient(t, server,
		WithBearerToken("tok-123"),
		WithCredentials("alice", "s3cret"),
	)

	if _, err := client.LookupArtist(context.Background(), testMBID); err != nil {
		t.Fatalf("LookupArtist failed: %v", err)
	}
}

func TestBearerRejectionIsAuthFailureWithoutRetry(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("WWW-Authenticate", `Digest realm="r", nonce="n"`)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(t, server,
		WithBearerToken("bad-token"),
		WithCredentials("alice", "s3cret"),
	)

	_, err := client.LookupArtist(context.Background(), testMBID)
	if !IsAuthenticationFailure(err) {
		t.Fatalf("Expected authentication failure, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected no digest retry under bearer auth, got %d round trips", calls)
	}
}

func TestSetCredentialsInvalidatesDigestCache(t *testing.T) {
	client := New(WithUserAgent("test/1.0"), WithCredentials("alice", "one"))
	client.setDigestAuth(`Digest username="alice", ...`)

	client.SetCredentials("alice", "two")

	if client.snapshotDigestAuth() != "" {
		t.Error("Expected digest cache cleared when credentials change")
	}
}

func TestBrowseArtistsPaginated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws/2/artist" {
			t.Errorf("Expected browse path /ws/2/artist, got %s", r.URL.Path)
		}
		if linked := r.URL.Query().Get("release"); linked != testMBID {
			t.Errorf("Expected release link %s, got %q", testMBID, linked)
		}
		if limit := r.URL.Query().Get("limit"); limit != "25" {
			t.Errorf("Expected limit 25, got %q", limit)
		}
		w.Header().Set("Content-Type", contentTypeJSON)
		fmt.Fprint(w, `{"artists":[{"id":"a1"},{"id":"a2"}],"count":2,"offset":0}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	list, err := client.BrowseArtists(context.Background(), Linked("release", testMBID), Limit(25))
	if err != nil {
		t.Fatalf("BrowseArtists failed: %v", err)
	}
	if len(list.Artists) != 2 {
		t.Errorf("Expected 2 artists, got %d", len(list.Artists))
	}
	if list.Complete() {
		t.Error("Expected paginated browse result")
	}
}

func TestSearchArtists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if q := r.URL.Query().Get("query"); q != "nirvana" {
			t.Errorf("Expected query nirvana, got %q", q)
		}
		w.Header().Set("Content-Type", contentTypeJSON)
		fmt.Fprint(w, `{"artists":[{"id":"a1","name":"Nirvana"}],"count":1,"offset":0}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	list, err := client.SearchArtists(context.Background(), "nirvana")
	if err != nil {
		t.Fatalf("SearchArtists failed: %v", err)
	}
	if len(list.Artists) != 1 || *list.Artists[0].Name != "Nirvana" {
		t.Errorf("Expected Nirvana match, got %+v", list.Artists)
	}
}

func TestLookupArtistXMLFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if accept := r.Header.Get("Accept"); accept != "application/xml" {
			t.Errorf("Expected Accept application/xml, got %s", accept)
		}
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprintf(w, `<metadata xmlns="http://musicbrainz.org/ns/mmd-2.0#"><artist id=%q><name>Nirvana</name></artist></metadata>`, testMBID)
	}))
	defer server.Close()

	client := newTestClient(t, server, WithFormat(FormatXML))
	artist, err := client.LookupArtist(context.Background(), testMBID)
	if err != nil {
		t.Fatalf("LookupArtist failed: %v", err)
	}
	if artist.Name == nil || *artist.Name != "Nirvana" {
		t.Errorf("Expected Name=Nirvana from XML, got %v", artist.Name)
	}
}

func TestBrowseWorks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws/2/work" {
			t.Errorf("Expected browse path /ws/2/work, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", contentTypeJSON)
		fmt.Fprint(w, `{"works":[{"id":"w1","title":"Lithium"}],"work-count":1,"work-offset":0}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	list, err := client.BrowseWorks(context.Background(), Linked("artist", testMBID))
	if err != nil {
		t.Fatalf("BrowseWorks failed: %v", err)
	}
	if len(list.Works) != 1 || *list.Works[0].Title != "Lithium" {
		t.Errorf("Expected Lithium work, got %+v", list.Works)
	}
}

func TestSearchReleases(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if q := r.URL.Query().Get("query"); q != "nevermind" {
			t.Errorf("Expected query nevermind, got %q", q)
		}
		w.Header().Set("Content-Type", contentTypeJSON)
		fmt.Fprint(w, `{"releases":[{"id":"r1","title":"Nevermind"}],"count":1,"offset":0}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	list, err := client.SearchReleases(context.Background(), "nevermind")
	if err != nil {
		t.Fatalf("SearchReleases failed: %v", err)
	}
	if len(list.Releases) != 1 || *list.Releases[0].Title != "Nevermind" {
		t.Errorf("Expected Nevermind match, got %+v", list.Releases)
	}
}

func TestTypedWrapperRejectsForeignReader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeJSON)
		fmt.Fprint(w, artistBody)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	client.Registry().Register(KindArtist, func(v Value) (any, error) {
		return map[string]string{"id": testMBID}, nil
	})

	_, err := client.LookupArtist(context.Background(), testMBID)
	if err == nil {
		t.Fatal("Expected decode failure for foreign reader type, got nil")
	}
	if !IsDecodeFailure(err) {
		t.Errorf("Expected decode failure, got %v", err)
	}
}

func TestLookupRespectsSchedulerDelay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeJSON)
		fmt.Fprint(w, artistBody)
	}))
	defer server.Close()

	client := newTestClient(t, server, WithScheduler(NewScheduler(40*time.Millisecond)))

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := client.LookupArtist(context.Background(), testMBID); err != nil {
			t.Fatalf("LookupArtist failed: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("Expected three calls to span at least two delay windows, got %v", elapsed)
	}
}

func TestEndpointMutableAtRuntime(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeJSON)
		fmt.Fprint(w, artistBody)
	}))
	defer server.Close()

	client := New(
		WithHost("metadata.invalid"),
		WithUserAgent("gobrainz-test/1.0"),
		WithRequestDelay(0),
	)

	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("Failed to parse server URL: %v", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("Failed to parse server port: %v", err)
	}
	client.SetScheme("http")
	client.SetHost(u.Hostname())
	client.SetPort(port)

	artist, err := client.LookupArtist(context.Background(), testMBID)
	if err != nil {
		t.Fatalf("LookupArtist after endpoint change failed: %v", err)
	}
	if artist.ID != testMBID {
		t.Errorf("Expected ID %s, got %s", testMBID, artist.ID)
	}
}

func TestFormatMutableAtRuntime(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") == "application/xml" {
			w.Header().Set("Content-Type", "application/xml")
			fmt.Fprintf(w, `<metadata><artist id=%q><name>Nirvana</name></artist></metadata>`, testMBID)
			return
		}
		w.Header().Set("Content-Type", contentTypeJSON)
		fmt.Fprint(w, artistBody)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	if _, err := client.LookupArtist(context.Background(), testMBID); err != nil {
		t.Fatalf("JSON lookup failed: %v", err)
	}

	client.SetFormat(FormatXML)
	artist, err := client.LookupArtist(context.Background(), testMBID)
	if err != nil {
		t.Fatalf("XML lookup after SetFormat failed: %v", err)
	}
	if artist.Name == nil || *artist.Name != "Nirvana" {
		t.Errorf("Expected Name=Nirvana after format change, got %v", artist.Name)
	}
}

func TestDigestRetryPassesScheduler(t *testing.T) {
	cred := Credential{User: "alice", Password: "secret"}
	var unauthorized int
	server := digestArtistServer(t, cred, &unauthorized)
	defer server.Close()

	clock := newFakeClock()
	client := newTestClient(t, server,
		WithCredentials(cred.User, cred.Password),
		WithScheduler(NewSchedulerWithClock(10*time.Second, clock)),
	)

	if _, err := client.LookupArtist(context.Background(), testMBID); err != nil {
		t.Fatalf("LookupArtist failed: %v", err)
	}
	if unauthorized != 1 {
		t.Fatalf("Expected one challenge round trip, got %d", unauthorized)
	}

	var total time.Duration
	for _, d := range clock.sleeps() {
		total += d
	}
	if total < 10*time.Second {
		t.Errorf("Expected the challenge retry to wait out the full delay, slept %v", total)
	}
}

func TestValidationSurfacesBadConfiguration(t *testing.T) {
	client := New(WithScheme("gopher"), WithUserAgent("test/1.0"))

	if client.IsValid() {
		t.Fatal("Expected invalid configuration")
	}
	err := client.ValidationError()
	if ce, ok := err.(*ClientError); !ok || ce.Type != ErrorTypeValidation {
		t.Errorf("Expected validation ClientError, got %v", err)
	}
}
