package queue

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"dealdesk/server/internal/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// Handler consumes one batch of run audit records
type Handler func([]*models.UnderwritingRun) error

// RunQueue is an in-memory queue of run audit batches waiting to be written
type RunQueue struct {
	items    chan []*models.UnderwritingRun
	workers  sync.WaitGroup
	maxSize  int
	closed   bool
	started  bool
	mu       sync.RWMutex
	logger   *logrus.Logger
	handlers []Handler
}

// NewRunQueue creates a new run queue with the specified buffer size
func NewRunQueue(bufferSize int, logger *logrus.Logger) *RunQueue {
	if logger == nil {
		logger = logrus.New()
	}
	return &RunQueue{
		items:    make(chan []*models.UnderwritingRun, bufferSize),
		maxSize:  bufferSize,
		logger:   logger,
		handlers: make([]Handler, 0),
	}
}

// Push adds a batch of runs to the queue without blocking
func (q *RunQueue) Push(runs []*models.UnderwritingRun) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.items <- runs:
		q.logger.WithField("batch_size", len(runs)).Debug("Pushed batch to queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe adds a handler function that will be called for each batch
func (q *RunQueue) Subscribe(handler Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start launches workers goroutines that hand batches to the subscribers.
// Calling Start again, or after Close, does nothing.
func (q *RunQueue) Start(workers int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.closed {
		return
	}
	q.started = true

	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		q.workers.Add(1)
		go q.process()
	}
}

func (q *RunQueue) process() {
	defer q.workers.Done()
	for batch := range q.items {
		q.processBatch(batch)
	}
}

// processBatch sends the batch to all subscribed handlers
func (q *RunQueue) processBatch(batch []*models.UnderwritingRun) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(batch); err != nil {
			q.logger.WithError(err).Error("Handler failed to process batch")
		}
	}
}

// Close rejects new batches, lets the workers drain what is buffered and
// waits for them to finish
func (q *RunQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.items)
	q.mu.Unlock()

	q.workers.Wait()
	return nil
}

// Len returns the current number of batches in the queue
func (q *RunQueue) Len() int {
	return len(q.items)
}

// IsClosed returns whether the queue has been closed
func (q *RunQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
