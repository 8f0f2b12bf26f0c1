//go:build linux

package threadpool

import (
	"golang.org/x/sys/unix"
)

// pinToCPU restricts the calling OS thread to a single CPU core. The
// caller must hold runtime.LockOSThread for the pin to stay meaningful.
func pinToCPU(cpu int) error {
	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpu)
	return unix.SchedSetaffinity(0, &mask)
}
