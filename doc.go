// Package gobrainz provides a read-only client for MusicBrainz-compatible
// metadata web services:
//
//   - Lookup / browse / search over the ws/2 entity endpoints
//   - Process-wide request scheduling (minimum delay between requests)
//   - HTTP Digest challenge-response authentication with a single bounded retry
//   - Bearer token authorization (takes precedence over Digest when configured)
//   - Forward-compatible decoding: unrecognized payload fields are preserved,
//     never rejected, in an ordered unhandled-properties map per entity
//   - Both JSON and XML payload formats through a single set of entity readers
//   - Prometheus metrics and lightweight structured debug logging
//
// Design goals:
//   - Small surface area – functional options configure everything
//   - Safe concurrent use of a single *Client instance
//   - A server adding new fields or enum values must never break an older client
//   - Extensibility via user supplied entity readers & pluggable scheduler / metrics
//
// Typical usage:
//
//	client := gobrainz.New(
//	    gobrainz.WithUserAgent("myapp/1.2 (contact@example.com)"),
//	    gobrainz.WithRequestDelay(time.Second),
//	    gobrainz.WithCredentials("user", "password"),
//	)
//	artist, err := client.LookupArtist(ctx, "5b11f4ce-a62d-471e-81fc-a69a8278c7da")
//
// Every call is admitted by the scheduler before the network round trip, so
// any number of goroutines and client instances sharing one scheduler respect
// the configured spacing. Failures are classified (transport, authentication,
// service-reported, empty response, decode) and inspectable via errors.As.
package gobrainz
