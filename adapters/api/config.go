package api

import "gohstat/internal"

// Config holds the HTTP API settings
type Config struct {
	// MaxBodyBytes limits request bodies
	MaxBodyBytes int64
	// RequestLogging enables chi's request logger
	RequestLogging bool
	Logger         *internal.Logger
}

// DefaultConfig returns sensible defaults for the API
func DefaultConfig() Config {
	return Config{
		MaxBodyBytes:   32 << 20,
		RequestLogging: true,
		Logger:         internal.DefaultLogger,
	}
}
