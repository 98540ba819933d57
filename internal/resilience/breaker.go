package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrBreakerOpen = errors.New("breaker is open")

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
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

// Breaker guards calls to an external feed. Consecutive failures open it,
// a cooldown lets a probe through, and enough probe successes close it
// again.
type Breaker struct {
	name          string
	failLimit     int
	cooldown      time.Duration
	probeQuorum   int
	state         State
	failures      int
	probeHits     int
	openedAt      time.Time
	onStateChange func(name string, from, to State)
	mu            sync.RWMutex
}

type BreakerConfig struct {
	Name          string
	FailLimit     int
	Cooldown      time.Duration
	ProbeQuorum   int
	OnStateChange func(name string, from, to State)
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.FailLimit <= 0 {
		cfg.FailLimit = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	if cfg.ProbeQuorum <= 0 {
		cfg.ProbeQuorum = 3
	}

	return &Breaker{
		name:          cfg.Name,
		failLimit:     cfg.FailLimit,
		cooldown:      cfg.Cooldown,
		probeQuorum:   cfg.ProbeQuorum,
		state:         StateClosed,
		onStateChange: cfg.OnStateChange,
	}
}

// Execute runs fn under the breaker. When open and still cooling down it
// fails fast with ErrBreakerOpen without calling fn.
func (b *Breaker) Execute(fn func() error) error {
	if !b.allow() {
		return ErrBreakerOpen
	}

	if err := fn(); err != nil {
		b.recordFailure()
		return err
	}

	b.recordSuccess()
	return nil
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return true
	case StateOpen:
		if time.Since(b.openedAt) > b.cooldown {
			b.transition(StateHalfOpen)
			return true
		}
		return false
	case StateHalfOpen:
		return true
	}
	return false
}

func (b *Breaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		b.probeHits++
		if b.probeHits >= b.probeQuorum {
			b.transition(StateClosed)
		}
	}
}

func (b *Breaker) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.openedAt = time.Now()

	switch b.state {
	case StateClosed:
		b.failures++
		if b.failures >= b.failLimit {
			b.transition(StateOpen)
		}
	case StateHalfOpen:
		// One failed probe re-opens immediately.
		b.transition(StateOpen)
	}
}

func (b *Breaker) transition(to State) {
	from := b.state
	b.state = to
	b.failures = 0
	b.probeHits = 0

	if b.onStateChange != nil {
		go b.onStateChange(b.name, from, to)
	}
}

func (b *Breaker) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Reset closes the breaker unconditionally.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failures = 0
	b.probeHits = 0
}
