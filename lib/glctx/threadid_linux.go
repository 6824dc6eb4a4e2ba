//go:build linux

package glctx

import "golang.org/x/sys/unix"

// threadID identifies the calling OS thread. Callers pin themselves
// with runtime.LockOSThread, so the kernel thread id is stable for
// the lifetime of their context work.
func threadID() int {
	return unix.Gettid()
}
