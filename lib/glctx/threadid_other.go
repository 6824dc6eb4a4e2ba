//go:build !linux

package glctx

import (
	"bytes"
	"runtime"
	"strconv"
)

// threadID identifies the calling OS thread. Platforms without a
// cheap thread-id syscall fall back to the goroutine id; since every
// caller of this package holds runtime.LockOSThread, the pinned
// goroutine stands in for its thread.
func threadID() int {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	// first line is "goroutine <id> [running]:"
	buf = bytes.TrimPrefix(buf, []byte("goroutine "))
	if i := bytes.IndexByte(buf, ' '); i > 0 {
		if id, err := strconv.Atoi(string(buf[:i])); err == nil {
			return id
		}
	}
	return 0
}
