package glctx

import (
	"sync"
	"sync/atomic"
)

// Visibility selects how "current context" propagates across
// threads.
type Visibility int

const (
	// ThreadLocal gives every OS thread its own current-context
	// slot. One thread can never observe another's current Context.
	// Callers are expected to hold runtime.LockOSThread, as GL
	// itself requires.
	ThreadLocal Visibility = iota

	// Shared uses a single process-wide slot visible from every
	// thread. Because there is only one slot, one native handle can
	// never be current on two threads at once.
	Shared
)

// Registry tracks which Context is current. It holds relations only:
// a Context's lifetime belongs to whoever created it, never to the
// registry. Registries are injectable so tests can run isolated ones
// side by side.
type Registry struct {
	visibility Visibility

	mu       sync.Mutex
	byThread map[int]*Context
	shared   atomic.Pointer[Context]

	listeners []func(*Context)
}

func NewRegistry(visibility Visibility) *Registry {
	return &Registry{
		visibility: visibility,
		byThread:   make(map[int]*Context),
	}
}

// DefaultRegistry is what NewContext uses when no registry is given.
// Thread-local, matching how GL binds contexts to threads.
var DefaultRegistry = NewRegistry(ThreadLocal)

// peek returns the calling thread's current Context or nil, without
// the precondition check of Current.
func (r *Registry) peek() *Context {
	if r.visibility == Shared {
		return r.shared.Load()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byThread[threadID()]
}

// MakeCurrent sets the calling thread's current Context. Nil clears
// the slot. Only the registry relation changes; ownership does not
// move.
func (r *Registry) MakeCurrent(ctx *Context) {
	if r.visibility == Shared {
		r.shared.Store(ctx)
	} else {
		r.mu.Lock()
		if ctx == nil {
			delete(r.byThread, threadID())
		} else {
			r.byThread[threadID()] = ctx
		}
		r.mu.Unlock()
	}
	r.notify(ctx)
}

// HasCurrent reports whether a Context is current for the calling
// thread. Never fails.
func (r *Registry) HasCurrent() bool {
	if r.visibility == Shared {
		return r.shared.Load() != nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byThread[threadID()] != nil
}

// Current returns the calling thread's current Context. Calling it
// with no context current is a programming error and panics.
func (r *Registry) Current() *Context {
	var ctx *Context
	if r.visibility == Shared {
		ctx = r.shared.Load()
	} else {
		r.mu.Lock()
		ctx = r.byThread[threadID()]
		r.mu.Unlock()
	}
	if ctx == nil {
		panic("glctx: no current context on this thread")
	}
	return ctx
}

// TryCurrent returns the calling thread's current Context and whether
// one was set. Unlike HasCurrent followed by Current it takes a single
// snapshot, so it stays safe against a Shared registry being cleared
// from another thread in between.
func (r *Registry) TryCurrent() (*Context, bool) {
	ctx := r.peek()
	return ctx, ctx != nil
}

// AddListener registers fn to be called after every current-context
// change, with the new Context (nil on clear).
func (r *Registry) AddListener(fn func(*Context)) {
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

func (r *Registry) notify(ctx *Context) {
	r.mu.Lock()
	listeners := make([]func(*Context), len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(ctx)
	}
}
