package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stefanpenner/trackline/pkg/kv"
)

// DefaultWriteTimeout bounds a single gateway call made by the Persister.
const DefaultWriteTimeout = 5 * time.Second

type pendingOp struct {
	value  string
	delete bool
}

type seenValue struct {
	value   string
	present bool
}

// Persister mirrors snapshots into a Gateway on a background goroutine.
// Save and Delete never block; queued operations are coalesced per key and
// failures are logged, not retried.
type Persister struct {
	gateway kv.Gateway
	timeout time.Duration
	log     *logrus.Entry

	mu       sync.Mutex
	pending  map[string]pendingOp
	inflight int
	seen     map[string]seenValue
	closed   bool

	wake    chan struct{}
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewPersister starts a Persister writing to gw.
func NewPersister(gw kv.Gateway, timeout time.Duration) *Persister {
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	p := &Persister{
		gateway: gw,
		timeout: timeout,
		log:     logrus.WithField("component", "persister"),
		pending: make(map[string]pendingOp),
		seen:    make(map[string]seenValue),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go p.run()
	return p
}

// Save queues a write of value under key.
func (p *Persister) Save(key, value string) {
	p.enqueue(key, pendingOp{value: value})
}

// Delete queues removal of key.
func (p *Persister) Delete(key string) {
	p.enqueue(key, pendingOp{delete: true})
}

// Pending returns the number of queued or in-flight operations.
func (p *Persister) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending) + p.inflight
}

// Close flushes queued operations and stops the worker.
func (p *Persister) Close() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		close(p.done)
	})
	<-p.stopped
}

// observe records the value currently stored under key.
func (p *Persister) observe(key, value string, present bool) {
	p.mu.Lock()
	p.seen[key] = seenValue{value: value, present: present}
	p.mu.Unlock()
}

// unchanged reports whether value matches what was last loaded or written.
func (p *Persister) unchanged(key, value string, present bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.seen[key]
	if !ok {
		return !present
	}
	return s.present == present && (!present || s.value == value)
}

func (p *Persister) enqueue(key string, op pendingOp) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.log.WithField("key", key).Warn("persister closed, dropping write")
		return
	}
	p.pending[key] = op
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Persister) run() {
	defer close(p.stopped)
	for {
		select {
		case <-p.wake:
			p.flush()
		case <-p.done:
			p.flush()
			return
		}
	}
}

func (p *Persister) flush() {
	p.mu.Lock()
	batch := p.pending
	p.pending = make(map[string]pendingOp)
	p.inflight = len(batch)
	p.mu.Unlock()

	keys := make([]string, 0, len(batch))
	for k := range batch {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		op := batch[key]
		err := p.apply(key, op)

		p.mu.Lock()
		p.inflight--
		if err == nil {
			p.seen[key] = seenValue{value: op.value, present: !op.delete}
		}
		p.mu.Unlock()
	}
}

func (p *Persister) apply(key string, op pendingOp) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	var err error
	if op.delete {
		err = p.gateway.Delete(ctx, key)
	} else {
		err = p.gateway.Set(ctx, key, op.value)
	}
	if err != nil {
		p.log.WithError(err).WithField("key", key).Warn("persistence write failed")
		return err
	}
	p.log.WithField("key", key).Trace("persisted")
	return nil
}
