package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriggerRunsOnlyLastCall(t *testing.T) {
	d := New(30 * time.Millisecond)
	var last atomic.Int64
	var calls atomic.Int64
	for i := 1; i <= 5; i++ {
		i := i
		d.Trigger(func() {
			calls.Add(1)
			last.Store(int64(i))
		})
	}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int64(1), calls.Load())
	assert.Equal(t, int64(5), last.Load())
}

func TestTriggerAfterQuietPeriodRunsAgain(t *testing.T) {
	d := New(10 * time.Millisecond)
	var calls atomic.Int64
	d.Trigger(func() { calls.Add(1) })
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 2*time.Millisecond)
	d.Trigger(func() { calls.Add(1) })
	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 2*time.Millisecond)
}

func TestStopCancelsPending(t *testing.T) {
	d := New(20 * time.Millisecond)
	var calls atomic.Int64
	d.Trigger(func() { calls.Add(1) })
	d.Stop()
	d.Trigger(func() { calls.Add(1) })
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int64(0), calls.Load())
}
