// Package realtime broadcasts messages between views running in the same
// process. Delivery is fire-and-forget: no acknowledgement, no replay, and a
// message that does not fit in a receiver's mailbox is dropped.
package realtime

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// DefaultMailboxSize bounds the messages queued per notifier.
const DefaultMailboxSize = 64

// Hub connects the notifiers of one profile.
type Hub struct {
	mu      sync.Mutex
	members map[*Notifier]struct{}
}

func NewHub() *Hub {
	return &Hub{members: make(map[*Notifier]struct{})}
}

func (h *Hub) join(n *Notifier) {
	h.mu.Lock()
	h.members[n] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) leave(n *Notifier) {
	h.mu.Lock()
	delete(h.members, n)
	h.mu.Unlock()
}

// broadcast enqueues msg for every member except from. Holding the lock for
// the whole fan-out gives every receiver the same publish order.
func (h *Hub) broadcast(from *Notifier, msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for n := range h.members {
		if n == from {
			continue
		}
		n.enqueue(msg)
	}
}

// Handler receives messages published by other notifiers.
type Handler func(Message)

// Option configures a Notifier.
type Option func(*Notifier)

// WithLogger logs dropped messages at debug level.
func WithLogger(log logrus.FieldLogger) Option {
	return func(n *Notifier) {
		n.log = log
	}
}

// WithMailboxSize overrides DefaultMailboxSize.
func WithMailboxSize(size int) Option {
	return func(n *Notifier) {
		if size > 0 {
			n.mailboxSize = size
		}
	}
}

// Notifier is one view's endpoint on a Hub.
type Notifier struct {
	hub         *Hub
	log         logrus.FieldLogger
	mailboxSize int

	mu       sync.RWMutex
	handlers map[uint64]Handler
	nextID   uint64

	mailbox     chan Message
	done        chan struct{}
	closeOnce   sync.Once
	wg          sync.WaitGroup
	closed      atomic.Bool
	dispatching atomic.Bool
	dropped     atomic.Uint64
}

// NewNotifier joins hub. A nil hub yields a notifier that publishes
// nowhere and never receives.
func NewNotifier(hub *Hub, opts ...Option) *Notifier {
	n := &Notifier{
		hub:         hub,
		mailboxSize: DefaultMailboxSize,
		handlers:    make(map[uint64]Handler),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(n)
	}
	if hub == nil {
		return n
	}

	n.mailbox = make(chan Message, n.mailboxSize)
	n.wg.Add(1)
	go n.run()
	hub.join(n)
	return n
}

// Subscribe registers handler and returns a function that removes it.
func (n *Notifier) Subscribe(handler Handler) (unsubscribe func()) {
	if n.hub == nil || handler == nil {
		return func() {}
	}

	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.handlers[id] = handler
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.handlers, id)
		n.mu.Unlock()
	}
}

// Publish hands msg to every other notifier on the hub. It never blocks and
// never reaches this notifier's own handlers.
func (n *Notifier) Publish(msg Message) {
	if n.hub == nil || msg == nil || n.closed.Load() {
		return
	}
	n.hub.broadcast(n, msg)
}

// Dropped reports how many incoming messages were discarded on a full mailbox.
func (n *Notifier) Dropped() uint64 {
	return n.dropped.Load()
}

// Close leaves the hub, stops delivery and clears all handlers. Messages
// still queued are discarded. No handler starts after Close returns.
//
// Close may be called from a handler. It then returns without waiting for
// the dispatch goroutine, which exits once the handler returns.
func (n *Notifier) Close() {
	n.closeOnce.Do(func() {
		n.closed.Store(true)
		if n.hub == nil {
			return
		}
		n.hub.leave(n)
		close(n.done)
		if !n.dispatching.Load() {
			n.wg.Wait()
		}

		n.mu.Lock()
		n.handlers = make(map[uint64]Handler)
		n.mu.Unlock()
	})
}

func (n *Notifier) enqueue(msg Message) {
	select {
	case n.mailbox <- msg:
	default:
		n.dropped.Add(1)
		if n.log != nil {
			n.log.WithField("type", msg.Type()).Debug("notifier mailbox full, message dropped")
		}
	}
}

func (n *Notifier) run() {
	defer n.wg.Done()
	for {
		select {
		case <-n.done:
			return
		case msg := <-n.mailbox:
			n.dispatch(msg)
		}
	}
}

func (n *Notifier) dispatch(msg Message) {
	n.mu.RLock()
	handlers := make([]Handler, 0, len(n.handlers))
	for _, h := range n.handlers {
		handlers = append(handlers, h)
	}
	n.mu.RUnlock()

	n.dispatching.Store(true)
	defer n.dispatching.Store(false)
	for _, h := range handlers {
		if n.closed.Load() {
			return
		}
		h(msg)
	}
}
