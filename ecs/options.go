package ecs

import "log/slog"

// ErrorPolicy decides what the World does with errors raised while it
// applies queued mutations and delivers notifications.
type ErrorPolicy int

const (
	// FailFast returns every error of a cycle, joined, to the caller.
	FailFast ErrorPolicy = iota
	// LogAndContinue logs each error and reports success.
	LogAndContinue
)

func (p ErrorPolicy) String() string {
	switch p {
	case FailFast:
		return "fail-fast"
	case LogAndContinue:
		return "log-and-continue"
	default:
		return "unknown"
	}
}

type worldConfig struct {
	logger   *slog.Logger
	policy   ErrorPolicy
	capacity int
}

func defaultWorldConfig() worldConfig {
	return worldConfig{
		logger:   slog.New(slog.DiscardHandler),
		policy:   FailFast,
		capacity: 1024,
	}
}

// Option configures a World.
type Option func(*worldConfig)

// WithLogger sets the logger used for warnings and for errors swallowed
// under LogAndContinue. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *worldConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithErrorPolicy(policy ErrorPolicy) Option {
	return func(c *worldConfig) {
		c.policy = policy
	}
}

// WithCapacity preallocates room for n entities.
func WithCapacity(n int) Option {
	return func(c *worldConfig) {
		if n > 0 {
			c.capacity = n
		}
	}
}
