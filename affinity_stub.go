//go:build !linux

package threadpool

// pinToCPU is a no-op outside linux.
func pinToCPU(int) error { return nil }
