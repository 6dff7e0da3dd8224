package session

import "sync"

const subscriberBuffer = 16

type hub struct {
	mu     sync.Mutex
	next   int
	subs   map[int]chan View
	closed bool
}

func newHub() *hub {
	return &hub{subs: make(map[int]chan View)}
}

func (h *hub) subscribe() (<-chan View, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan View, subscriberBuffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.next
	h.next++
	h.subs[id] = ch

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
}

// publish never blocks; a subscriber that fell behind misses the update.
func (h *hub) publish(view View) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs {
		select {
		case ch <- view:
		default:
		}
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
