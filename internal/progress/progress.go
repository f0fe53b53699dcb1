package progress

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes log lines from the terminal completion event.
type Kind string

const (
	KindLog  Kind = "log"
	KindDone Kind = "done"
)

// Event is one item delivered to the observer.
type Event struct {
	JobID string
	Kind  Kind
	Time  time.Time

	// Line is set for KindLog.
	Line string

	// Success and Err are set for KindDone.
	Success bool
	Err     error
}

// IsDone reports whether e is the completion event.
func (e Event) IsDone() bool { return e.Kind == KindDone }

// Stream is the event channel of one background job.
type Stream struct {
	id  string
	now func() time.Time

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Event
	closed  bool // completion queued; later emissions are dropped
	stopped bool // observer gone; queue discarded

	out  chan Event
	stop chan struct{}
}

// New creates a stream with a fresh job ID and starts its delivery loop.
func New() *Stream {
	return newStream(uuid.NewString(), time.Now)
}

func newStream(id string, now func() time.Time) *Stream {
	s := &Stream{
		id:  id,
		now: now,
		out:  make(chan Event),
		stop: make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)
	go s.pump()
	return s
}

// JobID returns the identifier attached to every event of this stream.
func (s *Stream) JobID() string { return s.id }

// Events returns the channel the observer reads. It is closed after the
// completion event. An observer must read until the channel closes or call
// Stop; otherwise the delivery goroutine stays parked on the next send.
func (s *Stream) Events() <-chan Event { return s.out }

// Log queues a progress line. It never blocks and is a no-op once the stream
// has completed.
func (s *Stream) Log(line string) {
	s.push(Event{Kind: KindLog, Line: line})
}

// Logf queues a formatted progress line.
func (s *Stream) Logf(format string, args ...any) {
	s.Log(fmt.Sprintf(format, args...))
}

// Complete queues the completion event. Only the first call has an effect.
func (s *Stream) Complete(err error) {
	s.push(Event{Kind: KindDone, Success: err == nil, Err: err})
}

// Completed reports whether Complete has been called.
func (s *Stream) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Stop detaches the observer: queued and future events are discarded and the
// Events channel is closed. The job itself keeps running. Safe to call more
// than once.
func (s *Stream) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	s.queue = nil
	close(s.stop)
	s.cond.Signal()
}

func (s *Stream) push(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.stopped {
		return
	}
	e.JobID = s.id
	e.Time = s.now()
	s.queue = append(s.queue, e)
	if e.Kind == KindDone {
		s.closed = true
	}
	s.cond.Signal()
}

func (s *Stream) pump() {
	defer close(s.out)
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.stopped {
			s.cond.Wait()
		}
		if s.stopped {
			s.mu.Unlock()
			return
		}
		e := s.queue[0]
		s.queue[0] = Event{}
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- e:
		case <-s.stop:
			return
		}
		if e.Kind == KindDone {
			return
		}
	}
}

// Drain reads every event until the channel closes, calling fn for each
// progress line, and returns the completion event.
func (s *Stream) Drain(fn func(line string)) Event {
	var done Event
	for e := range s.out {
		if e.IsDone() {
			done = e
			continue
		}
		if fn != nil {
			fn(e.Line)
		}
	}
	return done
}
