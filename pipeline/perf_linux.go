//go:build linux
// +build linux

package pipeline

import (
	"os"

	"github.com/embedquad/quadgen/config"
	perf "github.com/hodgesds/perf-utils"
)

// withPerfSampling wraps fn with hardware performance-counter sampling
// when params.EchoLevel requests it, mirroring how the teacher's own
// optional netlib/cgo wiring degrades silently when its prerequisite
// isn't available: a failure to open perf counters (unsupported kernel,
// missing CAP_PERFMON) just logs and runs fn uninstrumented.
func withPerfSampling(params config.Parameters, label string, fn func()) {
	if params.EchoLevel < 3 {
		fn()
		return
	}

	profiler, err := perf.NewHardwareProfiler(os.Getpid(), -1, perf.AllHardwareProfilers, nil)
	if err != nil {
		params.Log(3, "pipeline: %s: perf counters unavailable: %v", label, err)
		fn()
		return
	}
	if err := profiler.Start(); err != nil {
		params.Log(3, "pipeline: %s: perf start failed: %v", label, err)
		fn()
		return
	}

	fn()

	values, err := profiler.Profile(nil)
	if err != nil {
		params.Log(3, "pipeline: %s: perf read failed: %v", label, err)
	}
	for name, v := range values {
		params.Log(3, "pipeline: %s: perf counter %s = %v", label, name, v)
	}
	if err := profiler.Stop(); err != nil {
		params.Log(3, "pipeline: %s: perf stop failed: %v", label, err)
	}
}
