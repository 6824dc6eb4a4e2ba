package glctx

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lockThread pins the test to its OS thread for the duration.
// Thread-local registry slots are keyed by thread identity, so the
// test must not migrate between MakeCurrent and its assertions, the
// same contract real GL code satisfies.
func lockThread(t *testing.T) {
	t.Helper()
	runtime.LockOSThread()
	t.Cleanup(runtime.UnlockOSThread)
}

func newTestContext(t *testing.T, reg *Registry) *Context {
	t.Helper()
	ctx, err := NewContext(quietCfg(), testNative(), reg)
	require.NoError(t, err)
	t.Cleanup(ctx.Destroy)
	return ctx
}

func TestMakeCurrent(t *testing.T) {
	lockThread(t)

	reg := NewRegistry(ThreadLocal)
	ctx := newTestContext(t, reg)

	require.True(t, reg.HasCurrent())
	assert.Same(t, ctx, reg.Current())

	reg.MakeCurrent(nil)
	assert.False(t, reg.HasCurrent())

	// restoring a previously current context is just a registry
	// update, no ownership moves
	reg.MakeCurrent(ctx)
	require.True(t, reg.HasCurrent())
	assert.Same(t, ctx, reg.Current())
}

func TestTryCurrent(t *testing.T) {
	lockThread(t)

	reg := NewRegistry(Shared)
	ctx, ok := reg.TryCurrent()
	assert.Nil(t, ctx)
	assert.False(t, ok)

	c := newTestContext(t, reg)
	got, ok := reg.TryCurrent()
	require.True(t, ok)
	assert.Same(t, c, got)

	// one snapshot, so a clear racing in from another thread can
	// only flip ok, never panic
	reg.MakeCurrent(nil)
	_, ok = reg.TryCurrent()
	assert.False(t, ok)

	reg.MakeCurrent(c)
}

func TestCurrentPanicsWithoutContext(t *testing.T) {
	reg := NewRegistry(ThreadLocal)
	assert.False(t, reg.HasCurrent())
	assert.Panics(t, func() { reg.Current() })
}

func TestThreadLocalVisibility(t *testing.T) {
	lockThread(t)

	reg := NewRegistry(ThreadLocal)
	newTestContext(t, reg)
	require.True(t, reg.HasCurrent())

	// a worker on its own locked thread must not see this thread's
	// current context
	seen := make(chan bool)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		seen <- reg.HasCurrent()
	}()
	assert.False(t, <-seen)
}

func TestSharedVisibility(t *testing.T) {
	lockThread(t)

	reg := NewRegistry(Shared)
	ctx := newTestContext(t, reg)

	seen := make(chan *Context)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		if !reg.HasCurrent() {
			seen <- nil
			return
		}
		seen <- reg.Current()
	}()
	assert.Same(t, ctx, <-seen)
}

func TestListeners(t *testing.T) {
	lockThread(t)

	reg := NewRegistry(ThreadLocal)

	var events []*Context
	reg.AddListener(func(ctx *Context) {
		events = append(events, ctx)
	})

	ctx := newTestContext(t, reg)

	// construction parks the previous context, then activates the
	// new one; the listener sees the final activation last
	require.NotEmpty(t, events)
	assert.Same(t, ctx, events[len(events)-1])

	reg.MakeCurrent(nil)
	assert.Nil(t, events[len(events)-1])
}

func TestIsolatedRegistries(t *testing.T) {
	lockThread(t)

	a := NewRegistry(ThreadLocal)
	b := NewRegistry(ThreadLocal)

	newTestContext(t, a)
	assert.True(t, a.HasCurrent())
	assert.False(t, b.HasCurrent())
}
