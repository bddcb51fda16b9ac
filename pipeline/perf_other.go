//go:build !linux
// +build !linux

package pipeline

import "github.com/embedquad/quadgen/config"

// withPerfSampling is a no-op off Linux; hodgesds/perf-utils wraps the
// perf_event_open syscall, which only exists on Linux.
func withPerfSampling(_ config.Parameters, _ string, fn func()) {
	fn()
}
