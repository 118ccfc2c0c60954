// Package resilience provides retry and circuit breaking for upstream calls.
package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// CircuitState is the state of a CircuitBreaker.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned when a call is rejected by an open circuit.
var ErrCircuitOpen = eris.New("circuit breaker is open")

// CircuitBreaker stops calling an upstream after Threshold consecutive
// failures and lets a single probe through once Cooldown has elapsed.
type CircuitBreaker struct {
	name      string
	threshold int
	cooldown  time.Duration

	mu       sync.Mutex
	state    CircuitState
	failures int
	openedAt time.Time
	now      func() time.Time
}

// NewCircuitBreaker creates a closed breaker. Non-positive values default to
// five failures and a 30 second cooldown.
func NewCircuitBreaker(name string, threshold int, cooldown time.Duration) *CircuitBreaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &CircuitBreaker{
		name:      name,
		threshold: threshold,
		cooldown:  cooldown,
		now:       time.Now,
	}
}

// Execute runs fn unless the circuit is open.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := ExecuteVal(ctx, cb, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// ExecuteVal is Execute for functions that return a value. Context
// cancellation by the caller does not count as a failure.
func ExecuteVal[T any](ctx context.Context, cb *CircuitBreaker, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if !cb.allow() {
		return zero, ErrCircuitOpen
	}

	val, err := fn(ctx)
	if err != nil && ctx.Err() != nil {
		cb.abandon()
		return zero, err
	}
	cb.record(err)
	return val, err
}

// State returns the current state, reporting half-open once the cooldown
// of an open circuit has elapsed.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == CircuitOpen && cb.now().Sub(cb.openedAt) >= cb.cooldown {
		return CircuitHalfOpen
	}
	return cb.state
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitOpen:
		if cb.now().Sub(cb.openedAt) < cb.cooldown {
			return false
		}
		cb.setState(CircuitHalfOpen)
		return true
	case CircuitHalfOpen:
		// One probe at a time.
		return false
	default:
		return true
	}
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil {
		cb.failures = 0
		if cb.state != CircuitClosed {
			cb.setState(CircuitClosed)
		}
		return
	}

	cb.failures++
	if cb.state == CircuitHalfOpen || cb.failures >= cb.threshold {
		cb.openedAt = cb.now()
		cb.setState(CircuitOpen)
	}
}

// abandon returns an unfinished probe's slot so the next call can probe.
func (cb *CircuitBreaker) abandon() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == CircuitHalfOpen {
		cb.state = CircuitOpen
	}
}

func (cb *CircuitBreaker) setState(to CircuitState) {
	if cb.state == to {
		return
	}
	zap.L().Info("resilience: circuit state change",
		zap.String("breaker", cb.name),
		zap.Stringer("from", cb.state),
		zap.Stringer("to", to),
	)
	cb.state = to
}
