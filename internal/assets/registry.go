package assets

import "sync"

// State is the lifecycle of one injected element:
// uninitialized -> loading -> ready | failed. There is no way back; a failed
// element stays failed for the life of the Registry.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type element struct {
	asset Asset
	state State
	data  []byte
	err   error
	done  chan struct{}
}

// Registry holds the injected elements and installed globals shared by every
// map host in the process. It is safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	elements map[string]*element
	order    []string
	globals  map[string]any
}

func NewRegistry() *Registry {
	return &Registry{
		elements: make(map[string]*element),
		globals:  make(map[string]any),
	}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry { return defaultRegistry }

// claim returns the element for a.ID, creating it in the loading state when
// absent. owner is true only for the caller that created it.
func (r *Registry) claim(a Asset) (el *element, owner bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if el, ok := r.elements[a.ID]; ok {
		return el, false
	}
	el = &element{asset: a, state: StateLoading, done: make(chan struct{})}
	r.elements[a.ID] = el
	r.order = append(r.order, a.ID)
	return el, true
}

// settle records the outcome of a load and wakes waiters. global is installed
// under el.asset.Global on success.
func (r *Registry) settle(el *element, data []byte, global any, err error) {
	r.mu.Lock()
	if err != nil {
		el.state = StateFailed
		el.err = err
	} else {
		el.state = StateReady
		el.data = data
		if el.asset.Global != "" {
			r.globals[el.asset.Global] = global
		}
	}
	r.mu.Unlock()
	close(el.done)
}

// State reports the lifecycle state of the element with the given id.
func (r *Registry) State(id string) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if el, ok := r.elements[id]; ok {
		return el.state
	}
	return StateUninitialized
}

// Global returns an installed global.
func (r *Registry) Global(name string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.globals[name]
	return v, ok
}

// HasGlobal reports whether name is installed.
func (r *Registry) HasGlobal(name string) bool {
	_, ok := r.Global(name)
	return ok
}

// SetGlobal installs a global directly, for hosts that link a resource into
// the binary instead of loading it.
func (r *Registry) SetGlobal(name string, v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.globals[name] = v
}

// Stylesheet returns the bytes of a ready stylesheet.
func (r *Registry) Stylesheet(id string) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	el, ok := r.elements[id]
	if !ok || el.state != StateReady || el.asset.Kind != Stylesheet {
		return nil, false
	}
	return el.data, true
}

// Injected lists element identifiers in injection order.
func (r *Registry) Injected() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
