// Package resilience provides a circuit breaker for calls to optional
// downstream services, such as the change-event broker.
package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State of a circuit breaker.
type State int

const (
	StateClosed   State = iota // calls pass through
	StateOpen                  // calls are rejected
	StateHalfOpen              // a limited number of trial calls pass
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned instead of calling through an open breaker.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// BreakerOpts configures the circuit breaker.
type BreakerOpts struct {
	// FailThreshold is how many consecutive failures trip the breaker.
	FailThreshold int
	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration
	// HalfOpenMax is the number of trial calls allowed while half-open.
	HalfOpenMax int
	// OnStateChange, when set, is called with the old and new state after
	// every transition. It runs with the breaker locked and must not call it.
	OnStateChange func(from, to State)
}

// DefaultBreakerOpts are used for unset fields.
var DefaultBreakerOpts = BreakerOpts{
	FailThreshold: 5,
	Timeout:       30 * time.Second,
	HalfOpenMax:   1,
}

// Breaker stops calling a failing dependency for a while after
// FailThreshold consecutive failures.
type Breaker struct {
	mu            sync.Mutex
	opts          BreakerOpts
	state         State
	failures      int
	openedAt      time.Time
	halfOpenCount int
	now           func() time.Time
}

// NewBreaker creates a closed circuit breaker.
func NewBreaker(opts BreakerOpts) *Breaker {
	if opts.FailThreshold <= 0 {
		opts.FailThreshold = DefaultBreakerOpts.FailThreshold
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultBreakerOpts.Timeout
	}
	if opts.HalfOpenMax <= 0 {
		opts.HalfOpenMax = DefaultBreakerOpts.HalfOpenMax
	}
	return &Breaker{opts: opts, now: time.Now}
}

// State returns the current breaker state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentState()
}

// currentState moves an expired open breaker to half-open. Must hold mu.
func (b *Breaker) currentState() State {
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.opts.Timeout {
		b.setState(StateHalfOpen)
	}
	return b.state
}

// setState records a transition. Must hold mu.
func (b *Breaker) setState(s State) {
	if s == b.state {
		return
	}
	from := b.state
	b.state = s
	b.halfOpenCount = 0
	if s == StateOpen {
		b.openedAt = b.now()
		b.failures = 0
	}
	if b.opts.OnStateChange != nil {
		b.opts.OnStateChange(from, s)
	}
}

// Call runs f unless the breaker is open, and records its outcome.
func (b *Breaker) Call(ctx context.Context, f func(context.Context) error) error {
	b.mu.Lock()
	switch b.currentState() {
	case StateOpen:
		b.mu.Unlock()
		return ErrCircuitOpen
	case StateHalfOpen:
		if b.halfOpenCount >= b.opts.HalfOpenMax {
			b.mu.Unlock()
			return ErrCircuitOpen
		}
		b.halfOpenCount++
	}
	b.mu.Unlock()

	err := f(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.failures++
		if b.state == StateHalfOpen || b.failures >= b.opts.FailThreshold {
			b.setState(StateOpen)
		}
		return err
	}
	b.setState(StateClosed)
	b.failures = 0
	return nil
}
