package weather

import "sync"

// Subscription detaches a listener registered with Service.Subscribe.
type Subscription interface {
	Unsubscribe()
}

type listener struct {
	id uint64
	fn func()
}

// notifier is an ordered list of zero-argument callbacks.
type notifier struct {
	mu        sync.Mutex
	nextID    uint64
	listeners []listener
}

func (n *notifier) subscribe(fn func()) Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	n.listeners = append(n.listeners, listener{id: n.nextID, fn: fn})
	return &subscription{n: n, id: n.nextID}
}

func (n *notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, l := range n.listeners {
		if l.id == id {
			n.listeners = append(n.listeners[:i:i], n.listeners[i+1:]...)
			return
		}
	}
}

// notify calls every listener in insertion order. Listeners attached or
// detached during delivery take effect from the next notification.
func (n *notifier) notify() {
	n.mu.Lock()
	snapshot := make([]listener, len(n.listeners))
	copy(snapshot, n.listeners)
	n.mu.Unlock()

	for _, l := range snapshot {
		l.fn()
	}
}

func (n *notifier) len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners)
}

func (n *notifier) clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = nil
}

type subscription struct {
	once sync.Once
	n    *notifier
	id   uint64
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() { s.n.unsubscribe(s.id) })
}
