// Package notifier pings open shortlist pages when static assets change so they
// can reload themselves.
package notifier

import (
	"context"
	"sync"
)

// Notifier fans a change ping out to every subscribed page.
type Notifier struct {
	mu        sync.Mutex
	listeners map[chan struct{}]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan struct{}]struct{}),
	}
}

// Subscribe returns a channel that receives a ping per change. The
// subscription ends and the channel is closed once ctx is done.
func (n *Notifier) Subscribe(ctx context.Context) <-chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()

	go func() {
		<-ctx.Done()
		n.mu.Lock()
		delete(n.listeners, ch)
		n.mu.Unlock()
		close(ch)
	}()
	return ch
}

// Broadcast pings every listener and returns how many were subscribed.
// A listener that has not consumed its previous ping is not pinged twice.
func (n *Notifier) Broadcast() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	for ch := range n.listeners {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return len(n.listeners)
}

// Len returns the number of current listeners.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners)
}
