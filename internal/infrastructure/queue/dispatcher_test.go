package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cinefavs/catalog-api/internal/core/domain"
)

type recordingService struct {
	mu     sync.Mutex
	events []domain.SecurityEvent
	block  chan struct{}
	err    error
}

func (s *recordingService) Record(_ context.Context, e domain.SecurityEvent) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func (s *recordingService) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestDispatcher_DeliversAndDrainsOnStop(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(3, svc, nil, zerolog.Nop())
	d.Start(context.Background())

	for i := 0; i < 50; i++ {
		d.Enqueue(domain.SecurityEvent{Action: domain.ActionSearch, IPAddress: "10.0.0.1"})
	}
	d.Stop()

	if got := svc.count(); got != 50 {
		t.Fatalf("expected 50 recorded events, got %d", got)
	}
}

func TestDispatcher_PreservesOrderPerIP(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(4, svc, nil, zerolog.Nop())
	d.Start(context.Background())

	actions := []string{"a", "b", "c", "d", "e"}
	for _, a := range actions {
		d.Enqueue(domain.SecurityEvent{Action: a, IPAddress: "192.168.1.7"})
	}
	d.Stop()

	for i, e := range svc.events {
		if e.Action != actions[i] {
			t.Fatalf("event %d: expected %s, got %s", i, actions[i], e.Action)
		}
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	svc := &recordingService{block: make(chan struct{})}
	var dropped atomic.Int64
	d := NewDispatcher(1, svc, func(domain.SecurityEvent) { dropped.Add(1) }, zerolog.Nop())
	d.Start(context.Background())

	// One event is held by the blocked worker, channelBuffer fill the queue.
	total := channelBuffer + 10
	done := make(chan struct{})
	go func() {
		for i := 0; i < total; i++ {
			d.Enqueue(domain.SecurityEvent{Action: "x", IPAddress: "1.1.1.1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Enqueue blocked")
	}

	if dropped.Load() == 0 {
		t.Fatalf("expected some events to be dropped")
	}
	close(svc.block)
	d.Stop()

	if int64(svc.count())+dropped.Load() != int64(total) {
		t.Fatalf("recorded %d + dropped %d != %d", svc.count(), dropped.Load(), total)
	}
}

func TestDispatcher_EnqueueAfterStop(t *testing.T) {
	svc := &recordingService{}
	var dropped atomic.Int64
	d := NewDispatcher(1, svc, func(domain.SecurityEvent) { dropped.Add(1) }, zerolog.Nop())
	d.Start(context.Background())
	d.Stop()
	d.Stop()

	d.Enqueue(domain.SecurityEvent{Action: "late"})
	if dropped.Load() != 1 {
		t.Fatalf("expected late event to be dropped, got %d", dropped.Load())
	}
}

func TestDispatcher_RecordErrorDoesNotStopWorker(t *testing.T) {
	svc := &recordingService{err: errors.New("db down")}
	d := NewDispatcher(1, svc, nil, zerolog.Nop())
	d.Start(context.Background())

	d.Enqueue(domain.SecurityEvent{Action: "a"})
	d.Enqueue(domain.SecurityEvent{Action: "b"})
	d.Stop()

	if svc.count() != 2 {
		t.Fatalf("expected both events attempted, got %d", svc.count())
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &recordingService{}, nil, zerolog.Nop())
	first := d.shardIndex("203.0.113.9")
	for i := 0; i < 10; i++ {
		if d.shardIndex("203.0.113.9") != first {
			t.Fatalf("shard index changed")
		}
	}
}
