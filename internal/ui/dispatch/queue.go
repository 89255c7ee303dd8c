// Package dispatch передает функции из фоновых горутин в поток UI.
package dispatch

import (
	"context"
	"sync"
)

// Poster принимает функцию для выполнения в потоке UI. Post не блокируется.
type Poster interface {
	Post(f func())
}

// Queue — неограниченная очередь FIFO. Post можно вызывать из любой горутины;
// функции выполняются в порядке постановки либо через Run, либо через Drain.
type Queue struct {
	mu     sync.Mutex
	items  []func()
	signal chan struct{}
	closed bool
}

// New создает пустую очередь.
func New() *Queue {
	return &Queue{signal: make(chan struct{}, 1)}
}

// Post ставит f в очередь. После Close вызовы игнорируются.
func (q *Queue) Post(f func()) {
	if f == nil {
		return
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items, f)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// Len возвращает число ожидающих функций.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close отбрасывает ожидающие функции и запрещает новые.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.items = nil
	q.mu.Unlock()
}

func (q *Queue) take() []func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	batch := q.items
	q.items = nil
	return batch
}

// Drain выполняет все ожидающие функции в вызывающей горутине и возвращает
// их число. Функции, поставленные во время Drain, тоже выполняются.
func (q *Queue) Drain() int {
	n := 0
	for {
		batch := q.take()
		if len(batch) == 0 {
			return n
		}
		for _, f := range batch {
			f()
		}
		n += len(batch)
	}
}

// Run передает функции в deliver по одной, пока ctx не отменен.
// deliver должен сохранять порядок (walk Synchronize, tea.Program.Send).
func (q *Queue) Run(ctx context.Context, deliver func(f func())) {
	for {
		for _, f := range q.take() {
			deliver(f)
		}
		select {
		case <-ctx.Done():
			return
		case <-q.signal:
		}
	}
}
