package gobrainz

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// newDescriptor builds the immutable per-call request descriptor.
func newDescriptor(kind, id string, mods []Modifier) RequestDescriptor {
	q := url.Values{}
	for _, mod := range mods {
		mod(q)
	}
	return RequestDescriptor{Kind: kind, ID: id, Modifiers: q}
}

// buildURL composes the target URL from the configured endpoint and the
// request descriptor: {scheme}://{host}[:{port}]/{root}/{kind}[/{id}][?mods].
func (c *Client) buildURL(desc RequestDescriptor) *url.URL {
	scheme, host, port := c.snapshotEndpoint()
	if port > 0 {
		host = fmt.Sprintf("%s:%d", host, port)
	}
	path := "/" + c.root + "/" + desc.Kind
	if desc.ID != "" {
		path += "/" + url.PathEscape(desc.ID)
	}
	return &url.URL{
		Scheme:   scheme,
		Host:     host,
		Path:     path,
		RawQuery: desc.Modifiers.Encode(),
	}
}

// userAgentHeader combines the caller-supplied agent string with the
// library identifier and version.
func (c *Client) userAgentHeader() string {
	agent := c.snapshotUserAgent()
	if agent == "" {
		return userAgentSuffix()
	}
	return agent + " " + userAgentSuffix()
}

// execute runs the per-call request state machine: admission, one GET with
// bearer-over-digest authorization, and at most one retry on a 401 Digest
// challenge. It returns the raw response body on success and a classified
// *ClientError on failure.
func (c *Client) execute(ctx context.Context, desc RequestDescriptor, requestID string) ([]byte, error) {
	u := c.buildURL(desc)
	bearer := c.snapshotBearerToken()

	for attempt := 0; attempt < 2; attempt++ {
		// Every wire request passes the spacing gate, the challenge
		// retry included.
		waitStart := time.Now()
		c.scheduler.Admit()
		wait := time.Since(waitStart)
		if c.metrics != nil {
			c.metrics.RecordSchedulerWait(wait)
		}
		if c.debugEnabled() && c.debug.LogScheduler {
			c.logger.Debug("Admission granted", "requestID", requestID, "kind", desc.Kind, "wait", wait)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, &ClientError{
				Type:    ErrorTypeValidation,
				Message: "cannot build request",
				URL:     u.String(),
				Kind:    desc.Kind,
				Cause:   err,
			}
		}
		req.Header.Set("Accept", c.snapshotFormat().MIME())
		req.Header.Set("User-Agent", c.userAgentHeader())

		// Bearer wins over Digest; a cached Digest value is attached
		// preemptively to avoid a guaranteed 401 round trip per call.
		switch {
		case bearer != "":
			req.Header.Set("Authorization", "Bearer "+bearer)
		default:
			if cached := c.snapshotDigestAuth(); cached != "" {
				req.Header.Set("Authorization", cached)
			}
		}

		if c.debugEnabled() && c.debug.LogRequests {
			c.logger.Debug("Sending request", "requestID", requestID, "url", u.String(), "attempt", attempt)
		}

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if c.metrics != nil {
				c.metrics.RecordRequest(desc.Kind, 0, time.Since(start))
			}
			return nil, &ClientError{
				Type:    ErrorTypeTransport,
				Message: "request failed",
				URL:     u.String(),
				Kind:    desc.Kind,
				Cause:   err,
			}
		}
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if c.metrics != nil {
			c.metrics.RecordRequest(desc.Kind, resp.StatusCode, time.Since(start))
		}
		if readErr != nil {
			return nil, &ClientError{
				Type:       ErrorTypeTransport,
				Message:    "cannot read response body",
				StatusCode: resp.StatusCode,
				URL:        u.String(),
				Kind:       desc.Kind,
				Cause:      readErr,
			}
		}

		if resp.StatusCode == http.StatusUnauthorized {
			if err := c.handleChallenge(resp, u, desc, bearer, attempt, requestID); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode >= 400 {
			if msg, ok := c.serviceErrorMessage(resp.Header.Get("Content-Type"), body); ok {
				return nil, &ClientError{
					Type:       ErrorTypeService,
					Message:    msg,
					StatusCode: resp.StatusCode,
					URL:        u.String(),
					Kind:       desc.Kind,
				}
			}
			return nil, &ClientError{
				Type:       ErrorTypeTransport,
				Message:    "service returned error status",
				StatusCode: resp.StatusCode,
				URL:        u.String(),
				Kind:       desc.Kind,
			}
		}

		// A success status with an empty body violates the service
		// contract; every successful call is expected to return content.
		if len(body) == 0 {
			return nil, &ClientError{
				Type:       ErrorTypeEmptyResponse,
				Message:    "success response carried no body",
				StatusCode: resp.StatusCode,
				URL:        u.String(),
				Kind:       desc.Kind,
			}
		}
		return body, nil
	}

	// Unreachable: the second loop iteration either succeeds or the 401
	// handler rejects the repeated challenge.
	return nil, &ClientError{
		Type:    ErrorTypeAuthentication,
		Message: "authentication retry exhausted",
		URL:     u.String(),
		Kind:    desc.Kind,
	}
}

// handleChallenge resolves a 401 response. It returns nil when the request
// should be retried with a freshly computed Digest authorization, and a
// classified authentication failure otherwise.
func (c *Client) handleChallenge(resp *http.Response, u *url.URL, desc RequestDescriptor, bearer string, attempt int, requestID string) error {
	authFailure := func(msg string) error {
		return &ClientError{
			Type:       ErrorTypeAuthentication,
			Message:    msg,
			StatusCode: http.StatusUnauthorized,
			URL:        u.String(),
			Kind:       desc.Kind,
		}
	}

	if bearer != "" {
		return authFailure("bearer token rejected")
	}
	if attempt > 0 {
		return authFailure("second challenge within one call")
	}

	challenge, ok := parseDigestChallenge(resp.Header.Get("WWW-Authenticate"))
	if !ok {
		return authFailure("challenge is not digest authentication")
	}
	cred := c.snapshotCredential()
	if cred.User == "" {
		return authFailure("no credential configured")
	}

	value := challenge.authorize(cred, http.MethodGet, u.RequestURI(), c.cnonce)
	if value == c.snapshotDigestAuth() {
		return authFailure("challenge already answered")
	}
	c.setDigestAuth(value)

	if c.metrics != nil {
		c.metrics.RecordAuthRetry(desc.Kind)
	}
	if c.debugEnabled() && c.debug.LogAuth {
		c.logger.Debug("Retrying with digest authorization", "requestID", requestID, "realm", challenge.realm)
	}
	return nil
}

// serviceErrorMessage extracts a machine-readable error message from a
// non-2xx body when its content type matches the expected payload format.
// This is a best-effort heuristic, not a service contract.
func (c *Client) serviceErrorMessage(contentType string, body []byte) (string, bool) {
	format := c.snapshotFormat()
	if len(body) == 0 || !strings.HasPrefix(contentType, format.MIME()) {
		return "", false
	}
	var (
		v   Value
		err error
	)
	if format == FormatXML {
		v, err = parseXML(body)
	} else {
		v, err = parseJSON(body)
	}
	if err != nil || v.Kind != KindObject {
		return "", false
	}
	for _, field := range []string{"error", "text", "message", "#text"} {
		if pv, ok := v.Object.Get(field); ok {
			if msg, err := asString(pv); err == nil && msg != "" {
				return msg, true
			}
		}
	}
	return "", false
}

func (c *Client) debugEnabled() bool {
	return c.debug != nil && c.debug.Enabled && c.logger != nil
}
