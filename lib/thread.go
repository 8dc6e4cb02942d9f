package lib

/* thread.go contains functions useful for multi-threading. */

import (
	"runtime"

	g_error "github.com/phil-mansfield/imba/lib/error"
)

// ResolveThreads converts a user-supplied thread count to a real one. -1
// means one thread per core.
func ResolveThreads(n int) (int, error) {
	cpus := runtime.NumCPU()
	switch {
	case n == -1:
		return cpus, nil
	case n <= 0:
		return 0, g_error.Invalid("%d threads requested. The number of " +
			"threads must be positive or -1.", n)
	case n > cpus:
		return 0, g_error.Invalid("%d threads requested, but your system " +
			"only has %d cores. If you want imba to use the maximum number " +
			"of threads, set Threads = -1.", n, cpus)
	}
	return n, nil
}

// SetThreads sets the number of OS threads that can execute Go code at once.
// See ResolveThreads for the meaning of n.
func SetThreads(n int) error {
	n, err := ResolveThreads(n)
	if err != nil { return err }
	runtime.GOMAXPROCS(n)
	return nil
}
