package event

import (
	"reflect"
	"sync"
)

// Bus is a double-buffered event forwarder. Events emitted in tick N are
// delivered to listeners in tick N+1 by the dispatch system. Emit may be
// called from any goroutine (join/leave notifications arrive outside the
// tick loop); SwapBuffers and DispatchAll run on the tick goroutine only.
type Bus struct {
	mu       sync.Mutex // protects back buffer and handler registration
	front    map[reflect.Type][]any
	back     map[reflect.Type][]any
	handlers map[reflect.Type][]any
}

func NewBus() *Bus {
	return &Bus{
		front:    make(map[reflect.Type][]any),
		back:     make(map[reflect.Type][]any),
		handlers: make(map[reflect.Type][]any),
	}
}

// Emit queues an event into the back buffer, readable next tick.
func Emit[T any](b *Bus, event T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.mu.Lock()
	b.back[t] = append(b.back[t], event)
	b.mu.Unlock()
}

// Subscribe registers a typed listener for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.mu.Lock()
	b.handlers[t] = append(b.handlers[t], fn)
	b.mu.Unlock()
}

// UnsubscribeAll drops every registered listener.
func (b *Bus) UnsubscribeAll() {
	b.mu.Lock()
	b.handlers = make(map[reflect.Type][]any)
	b.mu.Unlock()
}

// SwapBuffers rotates back→front and clears the new back buffer. Called
// once at tick start.
func (b *Bus) SwapBuffers() {
	b.mu.Lock()
	b.front, b.back = b.back, b.front
	for k := range b.back {
		b.back[k] = b.back[k][:0]
	}
	b.mu.Unlock()
}

// DispatchAll delivers all front-buffer events to their listeners.
func (b *Bus) DispatchAll() {
	b.mu.Lock()
	handlers := b.handlers
	b.mu.Unlock()
	for t, events := range b.front {
		hs := handlers[t]
		for _, ev := range events {
			for _, h := range hs {
				// Safe: Subscribe and Emit key handlers and events by the
				// same concrete type.
				callHandler(h, ev)
			}
		}
	}
}

func callHandler(handler any, event any) {
	reflect.ValueOf(handler).Call([]reflect.Value{reflect.ValueOf(event)})
}
