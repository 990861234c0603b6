package gemini

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestGateSpacesCalls(t *testing.T) {
	gate := &requestGate{interval: 20 * time.Millisecond}

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, gate.Wait(context.Background()))
	}
	elapsed := time.Since(start)

	// First call is free, the next two each wait one interval.
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
}

func TestRequestGateFirstCallImmediate(t *testing.T) {
	gate := newRequestGate(60)

	start := time.Now()
	require.NoError(t, gate.Wait(context.Background()))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestRequestGateHonorsContext(t *testing.T) {
	gate := &requestGate{interval: time.Hour}
	require.NoError(t, gate.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := gate.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewRequestGateDefaultsInterval(t *testing.T) {
	gate := newRequestGate(0)
	assert.Equal(t, time.Second, gate.interval)
}
