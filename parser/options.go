package parser

import "log/slog"

// DefaultMaxDepth is the default limit on nested expressions, queries and
// types.
const DefaultMaxDepth = 512

// Option configures a parse call.
type Option func(*config)

type config struct {
	maxDepth int
	logger   *slog.Logger
}

func newConfig(opts []Option) config {
	cfg := config{
		maxDepth: DefaultMaxDepth,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithMaxDepth sets the maximum nesting depth. Values below 1 leave the
// default in place.
func WithMaxDepth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// WithLogger makes the parser emit debug records to l.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
