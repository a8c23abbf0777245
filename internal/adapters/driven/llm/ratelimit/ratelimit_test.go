package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/contralens/internal/core/ports/driven"
)

// stubLLM counts calls.
type stubLLM struct {
	calls int
}

func (s *stubLLM) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	s.calls++
	return "ok", nil
}

func (s *stubLLM) Chat(_ context.Context, _ []driven.ChatMessage, _ driven.GenerateOptions) (string, error) {
	s.calls++
	return "ok", nil
}

func (s *stubLLM) ModelName() string { return "stub" }

func (s *stubLLM) Ping(_ context.Context) error { return nil }

func (s *stubLLM) Close() error { return nil }

func TestWrap_FirstCallPassesImmediately(t *testing.T) {
	inner := &stubLLM{}
	svc := Wrap(inner, 60)

	start := time.Now()
	out, err := svc.Generate(context.Background(), "hello", driven.GenerateOptions{})
	require.NoError(t, err)

	assert.Equal(t, "ok", out)
	assert.Equal(t, 1, inner.calls)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestWrap_SecondCallWaits(t *testing.T) {
	inner := &stubLLM{}
	// 600 requests/minute = one token every 100ms.
	svc := Wrap(inner, 600)
	ctx := context.Background()

	_, err := svc.Generate(ctx, "one", driven.GenerateOptions{})
	require.NoError(t, err)

	start := time.Now()
	_, err = svc.Generate(ctx, "two", driven.GenerateOptions{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestWrap_CancelledContextAborts(t *testing.T) {
	inner := &stubLLM{}
	svc := Wrap(inner, 1)
	ctx := context.Background()

	_, err := svc.Generate(ctx, "one", driven.GenerateOptions{})
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = svc.Generate(cancelled, "two", driven.GenerateOptions{})
	assert.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}

func TestWrap_InvalidRateFallsBackToDefault(t *testing.T) {
	svc := Wrap(&stubLLM{}, 0)
	assert.NotNil(t, svc.limiter)
	assert.Equal(t, "stub", svc.ModelName())
}
