package telegram

import (
	"context"
	"sync"

	"github.com/vadiminshakov/chartbot/internal/bot"
)

// Handler processes one event.
type Handler interface {
	Handle(ctx context.Context, ev bot.Event)
}

// Dispatcher runs events of the same chat strictly in arrival order on one
// worker, while different chats run concurrently. A chat's worker exits once
// its queue drains.
type Dispatcher struct {
	handler Handler

	mu     sync.Mutex
	queues map[int64][]bot.Event
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher that feeds handler.
func NewDispatcher(handler Handler) *Dispatcher {
	return &Dispatcher{
		handler: handler,
		queues:  make(map[int64][]bot.Event),
	}
}

// Dispatch enqueues ev behind any pending events of the same chat. Handlers
// run detached from ctx cancellation so shutdown lets started interactions
// finish; use Wait to drain them.
func (d *Dispatcher) Dispatch(ctx context.Context, ev bot.Event) {
	ctx = context.WithoutCancel(ctx)

	d.mu.Lock()
	if queue, running := d.queues[ev.ChatID]; running {
		d.queues[ev.ChatID] = append(queue, ev)
		d.mu.Unlock()
		return
	}
	d.queues[ev.ChatID] = []bot.Event{ev}
	d.wg.Add(1)
	d.mu.Unlock()

	go d.drain(ctx, ev.ChatID)
}

func (d *Dispatcher) drain(ctx context.Context, chatID int64) {
	defer d.wg.Done()

	for {
		d.mu.Lock()
		queue := d.queues[chatID]
		if len(queue) == 0 {
			delete(d.queues, chatID)
			d.mu.Unlock()
			return
		}
		ev := queue[0]
		d.queues[chatID] = queue[1:]
		d.mu.Unlock()

		d.handler.Handle(ctx, ev)
	}
}

// ActiveChats returns the number of chats with queued or running events.
func (d *Dispatcher) ActiveChats() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queues)
}

// Wait blocks until every queued event has been handled.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
