package models

import (
	"net/http"
	"time"
)

// Timeout constants for acquisition.
const (
	// DefaultRequestTimeout is the default timeout for the weights download.
	DefaultRequestTimeout = 5 * time.Minute

	// DefaultLockTimeout is the default timeout for acquiring the
	// cross-process acquisition lock.
	DefaultLockTimeout = 30 * time.Second
)

// AcquireOption configures a single Acquire call.
type AcquireOption func(*acquireConfig)

// acquireConfig holds configuration for an acquire operation.
type acquireConfig struct {
	// force re-fetches and re-exports even when the artifacts exist.
	force bool

	// checksum is the expected SHA-256 of the weights, hex-encoded.
	// Empty disables verification.
	checksum string

	// progressFn is called with progress updates during the download.
	progressFn func(FetchProgress)
}

// WithForce re-fetches the weights and re-runs the export even when the
// artifacts already exist in the output directory.
func WithForce() AcquireOption {
	return func(c *acquireConfig) {
		c.force = true
	}
}

// WithChecksum sets the expected SHA-256 hash (lowercase hex) of the
// weights file. Freshly downloaded data is verified before it is moved
// into place; an existing file is verified in place. Verification is
// disabled by default.
func WithChecksum(hexHash string) AcquireOption {
	return func(c *acquireConfig) {
		c.checksum = hexHash
	}
}

// WithProgress sets a callback for progress updates during the download.
func WithProgress(fn func(FetchProgress)) AcquireOption {
	return func(c *acquireConfig) {
		c.progressFn = fn
	}
}

// ManagerOption configures a Manager.
type ManagerOption func(*managerConfig)

// managerConfig holds configuration for Manager construction.
type managerConfig struct {
	// httpClient is used for the weights download.
	httpClient HTTPClient

	// logger receives diagnostic log messages.
	logger Logger

	// exporter produces the ONNX artifact from the weights.
	exporter Exporter
}

// WithHTTPClient sets a custom HTTP client for the weights download.
// Useful for testing with mock servers or customizing timeouts.
// If not set, a client with DefaultRequestTimeout is used.
func WithHTTPClient(client HTTPClient) ManagerOption {
	return func(c *managerConfig) {
		c.httpClient = client
	}
}

// WithLogger sets a logger for diagnostic output.
// If not set, logging is disabled.
func WithLogger(logger Logger) ManagerOption {
	return func(c *managerConfig) {
		c.logger = logger
	}
}

// WithExporter sets the ONNX exporter implementation.
// If not set, the ultralytics "yolo" CLI is used.
func WithExporter(e Exporter) ManagerOption {
	return func(c *managerConfig) {
		c.exporter = e
	}
}

// HTTPClient is the interface for HTTP operations.
// *http.Client satisfies this interface.
type HTTPClient interface {
	// Do sends an HTTP request and returns an HTTP response.
	Do(req *http.Request) (*http.Response, error)
}

// Logger is the interface for diagnostic logging.
// Compatible with slog, zap, logrus, and other structured loggers.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, keysAndValues ...any)

	// Error logs an error-level message with optional key-value pairs.
	Error(msg string, keysAndValues ...any)
}
