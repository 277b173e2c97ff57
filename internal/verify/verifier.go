package verify

import (
	"go.uber.org/zap"
)

const (
	// DefaultMaxSourceChars bounds the raw extract sent per claim check
	DefaultMaxSourceChars = 4000

	// DefaultConcurrency bounds in-flight comparator calls per run
	DefaultConcurrency = 4
)

// Verifier runs verification passes against a Comparator. It holds no
// per-run state and is safe for concurrent use.
type Verifier struct {
	comparator     Comparator
	logger         *zap.Logger
	maxSourceChars int
	concurrency    int
}

// Option configures a Verifier
type Option func(*Verifier)

// WithLogger sets the logger used for per-field and per-claim debug output
func WithLogger(logger *zap.Logger) Option {
	return func(v *Verifier) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithMaxSourceChars sets how many characters of each raw extract are sent
// to the comparator.
func WithMaxSourceChars(n int) Option {
	return func(v *Verifier) {
		if n > 0 {
			v.maxSourceChars = n
		}
	}
}

// WithConcurrency bounds concurrent comparator calls. 1 makes every pass
// strictly sequential.
func WithConcurrency(n int) Option {
	return func(v *Verifier) {
		if n > 0 {
			v.concurrency = n
		}
	}
}

// NewVerifier creates a new verifier backed by comparator
func NewVerifier(comparator Comparator, opts ...Option) *Verifier {
	v := &Verifier{
		comparator:     comparator,
		logger:         zap.NewNop(),
		maxSourceChars: DefaultMaxSourceChars,
		concurrency:    DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}
