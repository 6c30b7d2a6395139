//go:build !pprof

package profile

// Modes returns nil when built without pprof tag.
func Modes() []string { return nil }

func start(Profiler) Stopper { return ignore{} }
