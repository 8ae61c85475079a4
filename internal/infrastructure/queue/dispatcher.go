package queue

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cinefavs/catalog-api/internal/core/domain"
	"github.com/cinefavs/catalog-api/internal/core/ports"
)

const (
	defaultWorkers = 2
	channelBuffer  = 256
	recordTimeout  = 5 * time.Second
)

// Dispatcher routes security events to a fixed set of workers using
// consistent hashing on the client IP, so events from one client are written
// in order. Enqueue never blocks a request: when a worker's buffer is full
// the event is dropped and reported through onDrop.
type Dispatcher struct {
	workers []chan domain.SecurityEvent
	service ports.AuditService
	onDrop  func(domain.SecurityEvent)
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. onDrop may be nil.
func NewDispatcher(numWorkers int, service ports.AuditService, onDrop func(domain.SecurityEvent), log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.SecurityEvent, numWorkers),
		service: service,
		onDrop:  onDrop,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.SecurityEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers exit when ctx is cancelled or
// after Stop has drained their queue.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an event to the worker responsible for its IP address.
func (d *Dispatcher) Enqueue(event domain.SecurityEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(event, "dispatcher stopped")
		return
	}
	select {
	case d.workers[d.shardIndex(event.IPAddress)] <- event:
	default:
		d.drop(event, "worker queue full")
	}
}

// Stop rejects new events, lets workers finish what is queued and waits for
// them. It is safe to call more than once.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) drop(event domain.SecurityEvent, reason string) {
	d.log.Warn().Str("action", event.Action).Str("reason", reason).Msg("security event dropped")
	if d.onDrop != nil {
		d.onDrop(event)
	}
}

// shardIndex maps an IP address deterministically to a worker index.
func (d *Dispatcher) shardIndex(ip string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(ip))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.SecurityEvent) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			d.record(ctx, id, event)
		}
	}
}

func (d *Dispatcher) record(ctx context.Context, id int, event domain.SecurityEvent) {
	ctx, cancel := context.WithTimeout(ctx, recordTimeout)
	defer cancel()

	if err := d.service.Record(ctx, event); err != nil {
		d.log.Error().Err(err).
			Str("action", event.Action).
			Int("worker_id", id).
			Msg("security event processing failed")
	}
}

var _ ports.AuditSink = (*Dispatcher)(nil)
