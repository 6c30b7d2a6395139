package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

// Stopper stops a running profiler.
type Stopper interface{ Stop() }

// Profiler configures and initializes the profiler.
type Profiler struct {
	Mode  string
	Path  string
	Quiet bool
}

// Start initializes the profiler and returns an interface for stopping it.
//
// Mode selects one of [Modes], and Path the output directory where profiling
// data will be written.
//
// If build tag pprof or p.Mode are unset, or p.Mode is unknown, then Start
// returns a no-op implementation.
// Both Start and Stop are always safely callable.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
