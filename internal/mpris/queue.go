package mpris

import (
	"sync"
	"time"

	"github.com/llehouerou/kanta/internal/playback"
)

// queueCapacity bounds pending media-control commands. D-Bus callback
// threads only ever enqueue; the controller drains on every tick, so
// the queue stays near-empty in practice.
const queueCapacity = 32

// eventQueue is the bounded handoff between D-Bus callback threads and
// the controller goroutine. When full, new commands are dropped rather
// than blocking the D-Bus dispatcher.
type eventQueue struct {
	ch chan playback.Event
}

func newEventQueue() *eventQueue {
	return &eventQueue{ch: make(chan playback.Event, queueCapacity)}
}

// push enqueues an event, dropping it when the queue is full.
func (q *eventQueue) push(ev playback.Event) {
	select {
	case q.ch <- ev:
	default:
	}
}

// poll dequeues the next event without blocking.
func (q *eventQueue) poll() (playback.Event, bool) {
	select {
	case ev := <-q.ch:
		return ev, true
	default:
		return playback.Event{}, false
	}
}

// stateStore holds the last published playback state for D-Bus property
// reads. Written by the controller goroutine, read by D-Bus threads.
type stateStore struct {
	mu      sync.Mutex
	status  playback.Status
	elapsed time.Duration
	volume  float64
	meta    playback.Metadata
}

func (s *stateStore) setStatus(status playback.Status, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.elapsed = elapsed
}

func (s *stateStore) setMetadata(meta playback.Metadata) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta = meta
}

func (s *stateStore) setVolume(level float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = level
}

func (s *stateStore) volumeLevel() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

func (s *stateStore) snapshot() (playback.Status, time.Duration, playback.Metadata) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.elapsed, s.meta
}
