// Package profile provides optional runtime profiling for the logchan
// command.
//
// # Overview
//
// This package integrates [github.com/pkg/profile] to provide runtime profiling
// capabilities with conditional compilation support. Profiling is optional and
// must be enabled at build time using the "pprof" build tag.
//
// When built with profiling disabled (default), all operations are no-ops with
// zero runtime overhead.
//
// # Available Profiling Modes
//
// The following profiling modes are supported when built with the pprof tag:
//
//   - allocs:    Memory allocation profiling (all allocations)
//   - block:     Block (synchronization) profiling
//   - clock:     Wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: Goroutine profiling
//   - heap:      Heap memory profiling (live allocations)
//   - mem:       General memory profiling
//   - mutex:     Mutex contention profiling
//   - thread:    Thread creation profiling
//   - trace:     Execution trace profiling
//
// Use [Modes] to retrieve the list of supported modes programmatically.
//
// # Using File-Based Profiling
//
//	p := profile.Profiler{
//	    Mode:  "cpu",
//	    Path:  "/tmp/profiles",
//	    Quiet: false,
//	}
//	ctrl := p.Start()
//	defer ctrl.Stop()
//
// Profile files are written to the specified directory with names matching the
// profiling mode (e.g., cpu.pprof, mem.pprof).
//
// # Command-Line Usage
//
//	# Profile a burst of 1000 records
//	./logchan --pprof-mode cpu burst -n 1000
//
// The default output directory is the pprof directory under the user cache
// directory, e.g. ~/.cache/logchan/pprof. Analyze the output with
// "go tool pprof".
//
// When built with the pprof tag, this package also imports [net/http/pprof],
// which registers HTTP handlers at /debug/pprof/ on [net/http.DefaultServeMux].
package profile
