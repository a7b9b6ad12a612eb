package audio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrBreakerOpen is returned while the circuit breaker rejects calls
var ErrBreakerOpen = errors.New("TTS provider circuit breaker is open")

// BreakerProvider stops calling a provider after repeated failures
type BreakerProvider struct {
	inner Provider
	cb    *gobreaker.CircuitBreaker
}

// NewBreakerProvider wraps inner in a circuit breaker that opens after
// maxFailures consecutive errors and probes again after 30 seconds
func NewBreakerProvider(inner Provider, maxFailures uint32, logger *zap.Logger) *BreakerProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	settings := gobreaker.Settings{
		Name:    inner.Name(),
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			// Cancellation is not a provider failure
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("TTS circuit breaker state changed",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
	return &BreakerProvider{inner: inner, cb: gobreaker.NewCircuitBreaker(settings)}
}

// GenerateAudio calls the wrapped provider through the breaker
func (b *BreakerProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.inner.GenerateAudio(ctx, text, outputFile)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrBreakerOpen, err)
	}
	return err
}

// Name returns the wrapped provider name
func (b *BreakerProvider) Name() string {
	return b.inner.Name()
}

// IsAvailable fails while the breaker is open
func (b *BreakerProvider) IsAvailable() error {
	if b.cb.State() == gobreaker.StateOpen {
		return ErrBreakerOpen
	}
	return b.inner.IsAvailable()
}

// State returns the breaker state
func (b *BreakerProvider) State() gobreaker.State {
	return b.cb.State()
}
