package auth

import "sync"

// Broadcaster fans out operator identity transitions to registered listeners.
// A new listener immediately receives the current state, then every transition
// until it unsubscribes.
type Broadcaster struct {
	mu        sync.Mutex
	current   *Identity
	listeners map[int]func(*Identity)
	nextID    int
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		listeners: make(map[int]func(*Identity)),
	}
}

// Subscribe registers a listener and fires it synchronously with the current
// identity (nil when signed out). The returned function removes the listener;
// calling it more than once is harmless.
func (b *Broadcaster) Subscribe(fn func(*Identity)) func() {
	if fn == nil {
		return func() {}
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	current := b.current
	b.mu.Unlock()

	fn(current)

	return func() {
		b.mu.Lock()
		delete(b.listeners, id)
		b.mu.Unlock()
	}
}

// SignedIn publishes the operator as the current identity.
func (b *Broadcaster) SignedIn(identity Identity) {
	b.publish(&identity)
}

// SignedOut clears the current identity.
func (b *Broadcaster) SignedOut() {
	b.publish(nil)
}

// Current returns the last published identity, nil when signed out.
func (b *Broadcaster) Current() *Identity {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

func (b *Broadcaster) publish(identity *Identity) {
	b.mu.Lock()
	b.current = identity
	fns := make([]func(*Identity), 0, len(b.listeners))
	for _, fn := range b.listeners {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(identity)
	}
}
