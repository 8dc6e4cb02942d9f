package lib

// RunMode indicates whether particles are binned by a single goroutine or by
// a pool of workers.
type RunMode int
const (
	SerialMode RunMode = iota
	ParallelMode
)

func (mode RunMode) String() string {
	switch mode {
	case SerialMode: return "serial"
	case ParallelMode: return "parallel"
	}
	return "unknown"
}

// CheckStrictness indicates how functions related to the "check" mode
// should behave when it encounters an error.
type CheckStrictness int
const (
	CrashOnError CheckStrictness = iota
	WarnOnError
)
