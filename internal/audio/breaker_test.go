package audio

import (
	"context"
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerProviderOpensAfterFailures(t *testing.T) {
	inner := &mockProvider{name: "flaky", generateErr: errors.New("rate limited")}
	breaker := NewBreakerProvider(inner, 2, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		err := breaker.GenerateAudio(ctx, "Hola.", "a.mp3")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrBreakerOpen)
	}
	assert.Equal(t, gobreaker.StateOpen, breaker.State())

	err := breaker.GenerateAudio(ctx, "Hola.", "a.mp3")
	assert.ErrorIs(t, err, ErrBreakerOpen)
	assert.Equal(t, 2, inner.generateCalls, "open breaker must not call the provider")
	assert.ErrorIs(t, breaker.IsAvailable(), ErrBreakerOpen)
	assert.Equal(t, "flaky", breaker.Name())
}

func TestBreakerProviderPassesSuccess(t *testing.T) {
	inner := &mockProvider{name: "ok"}
	breaker := NewBreakerProvider(inner, 1, nil)

	require.NoError(t, breaker.GenerateAudio(context.Background(), "Hola.", "a.mp3"))
	assert.Equal(t, gobreaker.StateClosed, breaker.State())
	assert.NoError(t, breaker.IsAvailable())
}

func TestBreakerProviderIgnoresCancellation(t *testing.T) {
	inner := &mockProvider{name: "slow", generateErr: context.Canceled}
	breaker := NewBreakerProvider(inner, 1, nil)

	err := breaker.GenerateAudio(context.Background(), "Hola.", "a.mp3")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, gobreaker.StateClosed, breaker.State())
}
