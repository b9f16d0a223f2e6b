package storage

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// CircuitBreaker stops sending writes to the bucket after repeated failures
type CircuitBreaker struct {
	failureThreshold int
	resetTimeout     time.Duration
	log              *zap.Logger

	consecutiveFailures int
	isOpen              bool
	lastFailureTime     time.Time
	now                 func() time.Time

	mutex sync.Mutex
}

// NewCircuitBreaker creates a new circuit breaker. A threshold of zero or less
// disables it.
func NewCircuitBreaker(failureThreshold int, resetTimeout time.Duration, log *zap.Logger) *CircuitBreaker {
	if log == nil {
		log = zap.NewNop()
	}
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		resetTimeout:     resetTimeout,
		log:              log,
		now:              time.Now,
	}
}

// RecordSuccess records a successful write
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	cb.consecutiveFailures = 0
}

// RecordFailure records a failed write and opens the circuit once the
// threshold of consecutive failures is reached
func (cb *CircuitBreaker) RecordFailure() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	cb.consecutiveFailures++
	cb.lastFailureTime = cb.now()

	if cb.failureThreshold > 0 && !cb.isOpen && cb.consecutiveFailures >= cb.failureThreshold {
		cb.isOpen = true
		cb.log.Warn("storage circuit breaker open",
			zap.Int("consecutive_failures", cb.consecutiveFailures),
			zap.Duration("reset_after", cb.resetTimeout))
	}
}

// CanProceed checks if writes are allowed
func (cb *CircuitBreaker) CanProceed() bool {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if !cb.isOpen {
		return true
	}

	// half-open: let the next write through after the reset timeout
	if cb.now().Sub(cb.lastFailureTime) > cb.resetTimeout {
		cb.log.Info("storage circuit breaker half-open", zap.Duration("after", cb.resetTimeout))
		cb.isOpen = false
		cb.consecutiveFailures = 0
		return true
	}

	return false
}

// IsOpen reports whether writes are currently rejected
func (cb *CircuitBreaker) IsOpen() bool {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.isOpen
}
