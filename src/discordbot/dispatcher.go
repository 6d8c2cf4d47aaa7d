package discordbot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/tlou-esports/te-suggestions/src/logging"
)

// Handler processes one event. Returned errors are logged and reported.
type Handler func(ctx context.Context, ev *Event) error

// ErrorHook is told about failed interaction events so it can answer the user.
type ErrorHook func(ctx context.Context, ev *Event, err error)

const defaultQueueSize = 256

// panicError marks a handler panic that was already reported.
type panicError struct{ error }

func (e panicError) Unwrap() error { return e.error }

// Dispatcher routes queued events to registered handlers. With one worker
// events are handled strictly in arrival order.
type Dispatcher struct {
	mu       sync.RWMutex
	routed   map[Kind]map[string]Handler
	fanout   map[Kind][]Handler
	onError  ErrorHook
	queue    chan *Event
	done     chan struct{}
	stopOnce sync.Once
}

func NewDispatcher(queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Dispatcher{
		routed: make(map[Kind]map[string]Handler),
		fanout: make(map[Kind][]Handler),
		queue:  make(chan *Event, queueSize),
		done:   make(chan struct{}),
	}
}

// Handle registers h for interactions of kind whose route equals key.
func (d *Dispatcher) Handle(kind Kind, key string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.routed[kind] == nil {
		d.routed[kind] = make(map[string]Handler)
	}
	if _, dup := d.routed[kind][key]; dup {
		log.Printf("discordbot: %s handler %q replaced", kind, key)
	}
	d.routed[kind][key] = h
}

// On registers h for every event of kind. Used for reactions, messages and ready.
func (d *Dispatcher) On(kind Kind, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fanout[kind] = append(d.fanout[kind], h)
}

// OnError sets the hook called when an interaction handler fails.
func (d *Dispatcher) OnError(hook ErrorHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onError = hook
}

// Enqueue queues ev, blocking while the queue is full. Events arriving after
// Close are dropped.
func (d *Dispatcher) Enqueue(ev *Event) bool {
	select {
	case <-d.done:
		return false
	default:
	}
	select {
	case d.queue <- ev:
		return true
	default:
	}
	log.Printf("discordbot: queue full, %s event %s waiting", ev.Kind, ev.ID)
	select {
	case d.queue <- ev:
		return true
	case <-d.done:
		return false
	}
}

// Close stops accepting events. Run drains what is already queued.
func (d *Dispatcher) Close() {
	d.stopOnce.Do(func() { close(d.done) })
}

// Run processes events with workers goroutines until ctx is cancelled or
// Close has been called and the queue is empty.
func (d *Dispatcher) Run(ctx context.Context, workers int) {
	if workers <= 0 {
		workers = 1
	}
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.work(ctx)
		}()
	}
	wg.Wait()
}

func (d *Dispatcher) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-d.queue:
			d.Dispatch(ctx, ev)
		case <-d.done:
			for {
				select {
				case ev := <-d.queue:
					d.Dispatch(ctx, ev)
				default:
					return
				}
			}
		}
	}
}

// Dispatch runs the handlers for ev on the calling goroutine.
func (d *Dispatcher) Dispatch(ctx context.Context, ev *Event) {
	d.mu.RLock()
	var handlers []Handler
	switch ev.Kind {
	case KindCommand, KindComponent, KindModal:
		if h, ok := d.routed[ev.Kind][ev.Route()]; ok {
			handlers = append(handlers, h)
		}
	default:
		handlers = append(handlers, d.fanout[ev.Kind]...)
	}
	hook := d.onError
	d.mu.RUnlock()

	if len(handlers) == 0 {
		if ev.Kind == KindCommand || ev.Kind == KindModal {
			log.Printf("discordbot: no handler for %s %q (event %s)", ev.Kind, ev.Route(), ev.ID)
		}
		return
	}

	for _, h := range handlers {
		if err := d.invoke(ctx, ev, h); err != nil {
			var pe panicError
			if !errors.As(err, &pe) {
				logging.Capture("discordbot", fmt.Errorf("%s %q (event %s): %w", ev.Kind, ev.Route(), ev.ID, err), map[string]string{
					"event_id":   ev.ID,
					"event_kind": ev.Kind.String(),
					"route":      ev.Route(),
				})
			}
			if hook != nil && ev.Interaction != nil {
				hook(ctx, ev, err)
			}
		}
	}
}

func (d *Dispatcher) invoke(ctx context.Context, ev *Event, h Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError{logging.ReportPanic("discordbot", r, map[string]string{"event_id": ev.ID, "event_kind": ev.Kind.String()})}
		}
	}()
	return h(ctx, ev)
}
