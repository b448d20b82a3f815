package gobrainz

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// WithScheme sets the URL scheme ("https" or "http").
func WithScheme(scheme string) Option {
	return func(c *Client) {
		c.scheme = scheme
	}
}

// WithHost sets the service host.
func WithHost(host string) Option {
	return func(c *Client) {
		c.host = host
	}
}

// WithPort sets an explicit port. Zero uses the scheme default.
func WithPort(port int) Option {
	return func(c *Client) {
		c.port = port
	}
}

// WithUserAgent sets the caller-supplied agent string. The library
// identifier and version are always appended.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		c.userAgent = agent
	}
}

// WithFormat selects the payload format negotiated with the service.
func WithFormat(format Format) Option {
	return func(c *Client) {
		c.format = format
	}
}

// WithBearerToken configures bearer authorization. A non-empty token takes
// precedence over digest authentication.
func WithBearerToken(token string) Option {
	return func(c *Client) {
		c.bearerToken = token
	}
}

// WithCredentials configures the digest credential.
func WithCredentials(user, password string) Option {
	return func(c *Client) {
		c.credential = Credential{User: user, Password: password}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the request timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if c.httpClient != nil {
			c.httpClient.Timeout = d
		}
	}
}

// WithScheduler shares a custom scheduler instead of DefaultScheduler.
func WithScheduler(s *Scheduler) Option {
	return func(c *Client) {
		c.scheduler = s
	}
}

// WithRequestDelay gives the client its own scheduler with the supplied
// minimum inter-request delay, detached from DefaultScheduler.
func WithRequestDelay(d time.Duration) Option {
	return func(c *Client) {
		c.scheduler = NewScheduler(d)
	}
}

// WithReaderRegistry sets a custom reader registry.
func WithReaderRegistry(r *ReaderRegistry) Option {
	return func(c *Client) {
		c.registry = r
	}
}

// WithMetrics enables Prometheus metrics collection on the default registerer.
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector.
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithLogger sets a custom logger for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSimpleLogger enables debug logging with a simple console logger.
func WithSimpleLogger() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
		c.logger = NewSimpleLogger()
	}
}

// WithDebug enables debug logging with default configuration.
func WithDebug() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
	}
}

// WithDebugConfig sets custom debug configuration.
func WithDebugConfig(config *DebugConfig) Option {
	return func(c *Client) {
		c.debug = config
	}
}

// WithRequestIDGenerator sets a custom function for generating request IDs.
func WithRequestIDGenerator(gen func() string) Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.RequestIDGen = gen
	}
}

// ValidateConfiguration validates the client configuration and returns an
// error if invalid.
func (c *Client) ValidateConfiguration() error {
	var errs []string

	errs = append(errs, c.validateEndpointConfig()...)
	errs = append(errs, c.validateAuthConfig()...)
	errs = append(errs, c.validateSchedulerConfig()...)
	errs = append(errs, c.validateHTTPClientConfig()...)
	errs = append(errs, c.validateDebugConfig()...)

	if len(errs) > 0 {
		return &ClientError{
			Type:    ErrorTypeValidation,
			Message: "configuration validation failed",
			Cause:   fmt.Errorf("validation errors: %v", errs),
		}
	}
	return nil
}

// validateEndpointConfig validates scheme, host, port and service root.
func (c *Client) validateEndpointConfig() []string {
	var errs []string

	if c.scheme != "http" && c.scheme != "https" {
		errs = append(errs, fmt.Sprintf("scheme must be http or https, got %q", c.scheme))
	}
	if strings.TrimSpace(c.host) == "" {
		errs = append(errs, "host cannot be empty")
	}
	if c.port < 0 || c.port > 65535 {
		errs = append(errs, fmt.Sprintf("port must be in [0, 65535], got %d", c.port))
	}
	if strings.Trim(c.root, "/") == "" {
		errs = append(errs, "service root cannot be empty")
	}
	if c.format != FormatJSON && c.format != FormatXML {
		errs = append(errs, "format must be FormatJSON or FormatXML")
	}

	return errs
}

// validateAuthConfig validates the credential shape.
func (c *Client) validateAuthConfig() []string {
	var errs []string

	if c.credential.User == "" && c.credential.Password != "" {
		errs = append(errs, "credential password set without a user")
	}

	return errs
}

// validateSchedulerConfig validates the scheduler and registry wiring.
func (c *Client) validateSchedulerConfig() []string {
	var errs []string

	if c.scheduler == nil {
		errs = append(errs, "scheduler cannot be nil")
	}
	if c.registry == nil {
		errs = append(errs, "reader registry cannot be nil")
	}

	return errs
}

// validateHTTPClientConfig validates HTTP client configuration.
func (c *Client) validateHTTPClientConfig() []string {
	var errs []string

	if c.httpClient == nil {
		errs = append(errs, "HTTP client cannot be nil")
	}

	return errs
}

// validateDebugConfig validates debug configuration.
func (c *Client) validateDebugConfig() []string {
	var errs []string

	if c.debug != nil && c.debug.Enabled {
		if c.debug.RequestIDGen == nil {
			errs = append(errs, "debug RequestIDGen must be set when debug is enabled")
		}
		if c.logger == nil {
			errs = append(errs, "logger must be set when debug is enabled")
		}
	}

	return errs
}
