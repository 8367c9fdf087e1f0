package key

import (
	"sync"

	"go.uber.org/zap"
)

type binding struct {
	id     uint64
	events []Event
	action func()
}

// Registry maps key presses to actions. Later bindings shadow earlier ones
// for the same key until they are unbound.
type Registry struct {
	mu       sync.Mutex
	logger   *zap.Logger
	bindings []binding
	nextID   uint64
}

// NewRegistry creates an empty registry. A nil logger discards output.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{logger: logger}
}

// Bind binds action to every key spec in keys and returns a function that
// removes the binding. Specs that do not parse are logged and skipped.
func (r *Registry) Bind(keys []string, action func()) (unbind func()) {
	events := make([]Event, 0, len(keys))
	for _, spec := range keys {
		ev, err := Parse(spec)
		if err != nil {
			r.logger.Warn("skipping key binding", zap.String("key", spec), zap.Error(err))
			continue
		}
		events = append(events, ev)
	}

	r.mu.Lock()
	r.nextID++
	id := r.nextID
	r.bindings = append(r.bindings, binding{id: id, events: events, action: action})
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.remove(id) })
	}
}

func (r *Registry) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, b := range r.bindings {
		if b.id == id {
			r.bindings = append(r.bindings[:i], r.bindings[i+1:]...)
			return
		}
	}
}

// Lookup returns the action bound to ev, newest binding first.
func (r *Registry) Lookup(ev Event) (func(), bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.bindings) - 1; i >= 0; i-- {
		for _, bound := range r.bindings[i].events {
			if bound.Equals(ev) {
				return r.bindings[i].action, true
			}
		}
	}
	return nil, false
}

// Dispatch runs the action bound to ev and reports whether one ran. The
// action runs without the registry lock held, so it may bind or unbind.
func (r *Registry) Dispatch(ev Event) bool {
	action, ok := r.Lookup(ev)
	if !ok {
		return false
	}
	r.logger.Debug("shortcut", zap.Stringer("key", ev))
	action()
	return true
}

// Len returns the number of live bindings.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bindings)
}
