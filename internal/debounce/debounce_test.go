package debounce

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed")
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for settled value")
	}
	var zero T
	return zero
}

func assertQuiet[T any](t *testing.T, ch <-chan T) {
	t.Helper()
	select {
	case v, ok := <-ch:
		if ok {
			t.Fatalf("unexpected value %v", v)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	clock := clockwork.NewFakeClock()
	d := New[string](time.Second, WithClock(clock))
	defer d.Stop()

	// Input changes at t=0, 50, 100 and 950ms.
	d.Set("p")
	clock.Advance(50 * time.Millisecond)
	d.Set("ph")
	clock.Advance(50 * time.Millisecond)
	d.Set("pho")
	clock.Advance(850 * time.Millisecond)
	d.Set("phone")

	// t=1949ms: still inside the quiet period of the last change.
	clock.Advance(999 * time.Millisecond)
	assertQuiet(t, d.C())
	assert.True(t, d.Pending())

	// t=1950ms.
	clock.Advance(time.Millisecond)
	assert.Equal(t, "phone", receive(t, d.C()))

	clock.Advance(10 * time.Second)
	assertQuiet(t, d.C())
	assert.False(t, d.Pending())
}

func TestDebouncer_SeparateQuietPeriods(t *testing.T) {
	clock := clockwork.NewFakeClock()
	d := New[int](100*time.Millisecond, WithClock(clock))
	defer d.Stop()

	d.Set(1)
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, 1, receive(t, d.C()))

	d.Set(2)
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, 2, receive(t, d.C()))
}

func TestDebouncer_ReplacesUndeliveredValue(t *testing.T) {
	clock := clockwork.NewFakeClock()
	d := New[string](time.Second, WithClock(clock))
	defer d.Stop()

	d.Set("a")
	clock.Advance(time.Second)
	d.Set("b")
	clock.Advance(time.Second)

	require.Eventually(t, func() bool { return !d.Pending() }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "b", receive(t, d.C()))
	assertQuiet(t, d.C())
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	clock := clockwork.NewFakeClock()
	d := New[string](time.Second, WithClock(clock))

	d.Set("dangling")
	d.Stop()
	clock.Advance(5 * time.Second)

	_, ok := <-d.C()
	assert.False(t, ok)

	// Both are no-ops after Stop.
	d.Set("late")
	d.Stop()
	assert.False(t, d.Pending())
}

func TestDebouncer_ZeroDelayIsDeferred(t *testing.T) {
	d := New[string](0)
	defer d.Stop()

	d.Set("now")
	assert.Equal(t, "now", receive(t, d.C()))
	assert.Zero(t, d.Delay())
}

func TestDebouncer_NegativeDelayClamped(t *testing.T) {
	d := New[string](-time.Second)
	defer d.Stop()

	assert.Zero(t, d.Delay())
}
