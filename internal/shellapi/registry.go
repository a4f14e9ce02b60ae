package shellapi

import "sync"

// Registry is the ordered set of live listeners. Broadcasts iterate a
// snapshot, so removal during a broadcast never disturbs the iteration.
type Registry struct {
	mu        sync.RWMutex
	listeners []*Listener
}

func (r *Registry) add(l *Listener) {
	r.mu.Lock()
	r.listeners = append(r.listeners, l)
	r.mu.Unlock()
}

// remove drops the listener for conn and returns it, or nil when absent.
func (r *Registry) remove(conn Conn) *Listener {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.listeners {
		if l.conn == conn {
			r.listeners = append(r.listeners[:i:i], r.listeners[i+1:]...)
			return l
		}
	}
	return nil
}

// Find returns the listener for conn.
func (r *Registry) Find(conn Conn) *Listener {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range r.listeners {
		if l.conn == conn {
			return l
		}
	}
	return nil
}

// Snapshot copies the current listener set.
func (r *Registry) Snapshot() []*Listener {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Listener(nil), r.listeners...)
}

// Len returns the number of live listeners.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners)
}

func (r *Registry) drain() []*Listener {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.listeners
	r.listeners = nil
	return out
}
