package progress

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, s *Stream) []Event {
	t.Helper()
	var events []Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case e, ok := <-s.Events():
			if !ok {
				return events
			}
			events = append(events, e)
		case <-timeout:
			t.Fatal("stream did not close")
		}
	}
}

func TestStream_OrderAndSingleCompletion(t *testing.T) {
	s := New()
	_, err := uuid.Parse(s.JobID())
	require.NoError(t, err)

	s.Log("Resolving pnpm")
	s.Logf("Running %s", "pnpm install")
	s.Complete(nil)
	s.Log("after completion")
	s.Complete(errors.New("second completion"))

	events := collect(t, s)
	require.Len(t, events, 3)
	assert.Equal(t, "Resolving pnpm", events[0].Line)
	assert.Equal(t, "Running pnpm install", events[1].Line)
	assert.True(t, events[2].IsDone())
	assert.True(t, events[2].Success)
	assert.NoError(t, events[2].Err)
	for _, e := range events {
		assert.Equal(t, s.JobID(), e.JobID)
		assert.False(t, e.Time.IsZero())
	}
	assert.True(t, s.Completed())
}

func TestStream_FailedCompletion(t *testing.T) {
	s := New()
	boom := errors.New("boom")
	s.Complete(boom)

	events := collect(t, s)
	require.Len(t, events, 1)
	assert.False(t, events[0].Success)
	assert.ErrorIs(t, events[0].Err, boom)
}

func TestStream_EmitterNeverBlocks(t *testing.T) {
	s := New()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10000; i++ {
			s.Logf("line %d", i)
		}
		s.Complete(nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("emitter blocked with no reader")
	}

	events := collect(t, s)
	require.Len(t, events, 10001)
	for i := 0; i < 10000; i++ {
		assert.Equal(t, fmt.Sprintf("line %d", i), events[i].Line)
	}
	assert.True(t, events[10000].IsDone())
}

func TestStream_StopReleasesAbandonedObserver(t *testing.T) {
	s := New()
	for i := 0; i < 100; i++ {
		s.Logf("line %d", i)
	}

	s.Stop()
	s.Stop()
	s.Log("after stop")
	s.Complete(nil)

	events := collect(t, s)
	assert.LessOrEqual(t, len(events), 1, "at most the event already in flight is delivered")
	for _, e := range events {
		assert.False(t, e.IsDone())
	}
}

func TestStream_ConcurrentEmitters(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.Log("x")
			}
		}()
	}
	wg.Wait()
	s.Complete(nil)

	events := collect(t, s)
	require.Len(t, events, 801)
	assert.True(t, events[len(events)-1].IsDone())
}

func TestStream_Drain(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := newStream("job-1", func() time.Time { return fixed })
	s.Log("a")
	s.Log("b")
	s.Complete(errors.New("failed"))

	var lines []string
	done := s.Drain(func(line string) { lines = append(lines, line) })
	assert.Equal(t, []string{"a", "b"}, lines)
	assert.False(t, done.Success)
	assert.Equal(t, "job-1", done.JobID)
	assert.Equal(t, fixed, done.Time)
}
