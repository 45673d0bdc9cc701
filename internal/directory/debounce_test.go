package directory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerCollapsesBurst(t *testing.T) {
	clock := &fakeClock{}
	var got []string
	d := NewDebouncer(500*time.Millisecond, clock, func(v string) { got = append(got, v) })

	d.Push("en")
	clock.Advance(200 * time.Millisecond)
	d.Push("eng")
	clock.Advance(200 * time.Millisecond)
	d.Push("engineering")
	clock.Advance(499 * time.Millisecond)
	assert.Empty(t, got, "nothing emitted before the input is stable")
	assert.True(t, d.Pending())

	clock.Advance(time.Millisecond)
	assert.Equal(t, []string{"engineering"}, got)
	assert.False(t, d.Pending())

	clock.Advance(time.Second)
	assert.Equal(t, []string{"engineering"}, got, "stopped timers never fire")
}

func TestDebouncerEmitsEachSettledValue(t *testing.T) {
	clock := &fakeClock{}
	var got []int
	d := NewDebouncer(100*time.Millisecond, clock, func(v int) { got = append(got, v) })

	d.Push(1)
	clock.Advance(100 * time.Millisecond)
	d.Push(2)
	clock.Advance(100 * time.Millisecond)

	assert.Equal(t, []int{1, 2}, got)
}

func TestDebouncerCancel(t *testing.T) {
	clock := &fakeClock{}
	var got []string
	d := NewDebouncer(100*time.Millisecond, clock, func(v string) { got = append(got, v) })

	d.Push("a")
	d.Cancel()
	clock.Advance(time.Second)
	assert.Empty(t, got)

	d.Push("b")
	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, []string{"b"}, got, "a cancelled debouncer keeps working")
}

func TestDebouncerStopIsFinal(t *testing.T) {
	clock := &fakeClock{}
	var got []string
	d := NewDebouncer(100*time.Millisecond, clock, func(v string) { got = append(got, v) })

	d.Push("a")
	d.Stop()
	clock.Advance(time.Second)
	d.Push("b")
	clock.Advance(time.Second)

	assert.Empty(t, got)
	assert.False(t, d.Pending())
}

func TestDebouncerZeroDelayIsSynchronous(t *testing.T) {
	var got []string
	d := NewDebouncer(0, &fakeClock{}, func(v string) { got = append(got, v) })

	d.Push("now")
	assert.Equal(t, []string{"now"}, got)
}

func TestDebouncerWallClock(t *testing.T) {
	out := make(chan string, 1)
	d := NewDebouncer(10*time.Millisecond, nil, func(v string) { out <- v })
	defer d.Stop()

	d.Push("x")
	d.Push("y")
	select {
	case v := <-out:
		assert.Equal(t, "y", v)
	case <-time.After(time.Second):
		t.Fatal("debounced value never arrived")
	}
}
