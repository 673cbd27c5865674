// Package config holds the small set of construction-time tunables this
// client exposes beyond the WebRTC API surface itself, as a set of
// functional options applied over a zero-value default.
package config

import (
	"time"

	"github.com/pion/logging"
)

// Config collects construction-time options for the peer-connection
// orchestrator.
type Config struct {
	LoggerFactory logging.LoggerFactory

	// DTLSReplayWindow is the DTLS record replay-protection window size;
	// zero uses the dtls package's own default.
	DTLSReplayWindow int

	// SignallingRetryInterval is how long the signalling client sleeps
	// between failed POSTs to the server. Zero uses signaling.DefaultRetryInterval.
	SignallingRetryInterval time.Duration
}

// Option mutates a Config during construction.
type Option func(*Config)

// Default returns a Config with the package defaults: a default logger
// factory and zero-valued (library-default) timing knobs.
func Default() Config {
	return Config{LoggerFactory: logging.NewDefaultLoggerFactory()}
}

// New builds a Config from Default plus the given options.
func New(opts ...Option) Config {
	cfg := Default()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithLoggerFactory overrides the default logger factory.
func WithLoggerFactory(lf logging.LoggerFactory) Option {
	return func(c *Config) { c.LoggerFactory = lf }
}

// WithDTLSReplayWindow sets the DTLS replay-protection window size.
func WithDTLSReplayWindow(n int) Option {
	return func(c *Config) { c.DTLSReplayWindow = n }
}

// WithSignallingRetryInterval sets the signalling retry interval.
func WithSignallingRetryInterval(d time.Duration) Option {
	return func(c *Config) { c.SignallingRetryInterval = d }
}
