package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	values []string
}

func (r *recorder) record(v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

func TestRapidPushesEmitOnlyFinalValue(t *testing.T) {
	rec := &recorder{}
	d := New(30*time.Millisecond, rec.record)
	defer d.Stop()

	for _, v := range []string{"t", "tr", "tra", "trak", "trakt", "трактор"} {
		d.Push(v)
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, time.Second, 5*time.Millisecond, "expected exactly one settled delivery")

	assert.Equal(t, []string{"трактор"}, rec.snapshot())

	// No trailing duplicate after further silence.
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, []string{"трактор"}, rec.snapshot())
}

func TestStopCancelsPendingDelivery(t *testing.T) {
	rec := &recorder{}
	d := New(20*time.Millisecond, rec.record)

	d.Push("stale")
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.snapshot(), "no delivery may happen after Stop")

	// Pushes after Stop are ignored.
	d.Push("late")
	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestFlushDeliversImmediately(t *testing.T) {
	rec := &recorder{}
	d := New(time.Hour, rec.record)
	defer d.Stop()

	d.Push("now")
	d.Flush()

	assert.Equal(t, []string{"now"}, rec.snapshot())

	// Flush with nothing armed is a no-op.
	d.Flush()
	assert.Equal(t, []string{"now"}, rec.snapshot())
}

func TestZeroDelayFallsBackToDefault(t *testing.T) {
	d := New(0, func(int) {})
	defer d.Stop()
	assert.Equal(t, DefaultDelay, d.delay)
}
