package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned while the breaker is rejecting calls.
var ErrOpen = errors.New("circuit breaker is open")

type state int

const (
	stateClosed state = iota
	stateOpen
	stateHalfOpen
)

type Settings struct {
	Name string
	// MaxFailures is the consecutive failure count that opens the breaker.
	MaxFailures int
	// Cooldown is how long the breaker stays open before probing again.
	Cooldown time.Duration
}

// CircuitBreaker guards an outbound dependency. After MaxFailures
// consecutive failures calls are rejected for Cooldown, then a single probe
// call decides whether to close again.
type CircuitBreaker struct {
	name        string
	maxFailures int
	cooldown    time.Duration

	mu          sync.Mutex
	state       state
	failures    int
	lastFailure time.Time
}

func New(settings Settings) *CircuitBreaker {
	if settings.MaxFailures <= 0 {
		settings.MaxFailures = 5
	}
	if settings.Cooldown <= 0 {
		settings.Cooldown = 30 * time.Second
	}
	return &CircuitBreaker{
		name:        settings.Name,
		maxFailures: settings.MaxFailures,
		cooldown:    settings.Cooldown,
	}
}

func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	if cb.state == stateOpen {
		if time.Since(cb.lastFailure) < cb.cooldown {
			cb.mu.Unlock()
			return ErrOpen
		}
		cb.state = stateHalfOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.failures++
		cb.lastFailure = time.Now()
		if cb.state == stateHalfOpen || cb.failures >= cb.maxFailures {
			cb.state = stateOpen
		}
		return err
	}

	cb.state = stateClosed
	cb.failures = 0
	return nil
}
