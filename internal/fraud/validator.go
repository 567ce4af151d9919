// Package fraud decides whether a click is legitimate and should earn revenue.
package fraud

import (
	"context"
	"math/rand/v2"
	"time"
)

const (
	// DefaultDelay simulates the latency of an external fraud-scoring call
	DefaultDelay = 500 * time.Millisecond
	// DefaultPassProbability is the chance a click is judged valid
	DefaultPassProbability = 0.5
)

// Validator judges a single click
type Validator interface {
	Validate(ctx context.Context) bool
}

// Simulator is a Validator that waits a fixed delay and then flips a coin.
// It never fails and is safe for concurrent use.
type Simulator struct {
	delay time.Duration
	after func(time.Duration) <-chan time.Time
	coin  func() bool
}

// Option configures a Simulator
type Option func(*Simulator)

// WithDelay sets the simulated latency
func WithDelay(d time.Duration) Option {
	return func(s *Simulator) {
		s.delay = d
	}
}

// WithClock replaces time.After, mainly for tests
func WithClock(after func(time.Duration) <-chan time.Time) Option {
	return func(s *Simulator) {
		s.after = after
	}
}

// WithCoin replaces the random outcome source
func WithCoin(coin func() bool) Option {
	return func(s *Simulator) {
		s.coin = coin
	}
}

// WithProbability sets the chance of a click passing validation, clamped to [0, 1]
func WithProbability(p float64) Option {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return func(s *Simulator) {
		s.coin = func() bool { return rand.Float64() < p }
	}
}

// NewSimulator creates a Simulator with a 500ms delay and a fair coin
func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{
		delay: DefaultDelay,
		after: time.After,
		coin:  func() bool { return rand.Float64() < DefaultPassProbability },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate waits for the configured delay and returns the coin outcome.
// The context is not consulted; callers that must not be interrupted pass a detached one.
func (s *Simulator) Validate(_ context.Context) bool {
	if s.delay > 0 {
		<-s.after(s.delay)
	}
	return s.coin()
}
