package health

import (
	"runtime"
)

// Thresholds for the built-in checks
const (
	DefaultMaxIncompatibleRatio = 0.25
	DefaultMaxGoroutines        = 10000
)

// SimpleCheck reports healthy unconditionally
func SimpleCheck(name string) CheckFunc {
	return func() Check {
		return Check{Name: name, Status: StatusHealthy}
	}
}

// RunCheck reports the most recent alignment run. A failed run is unhealthy.
// A run that marked more than maxIncompatible of its peaks incompatible is
// degraded, as is the state before the first run finishes.
func RunCheck(state func() RunState, maxIncompatible float64) CheckFunc {
	return func() Check {
		s := state()
		check := Check{
			Name: "alignment",
			Details: map[string]any{
				"running":  s.Running,
				"finished": s.Finished,
			},
		}

		switch {
		case s.Err != nil:
			check.Status = StatusUnhealthy
			check.Message = s.Err.Error()
		case !s.Finished:
			check.Status = StatusDegraded
			check.Message = "No completed run"
		default:
			check.Details["samples"] = s.Samples
			check.Details["peaks"] = s.Peaks
			check.Details["incompatible_ratio"] = s.IncompatibleRatio
			check.Details["finished_at"] = s.FinishedAt
			if s.IncompatibleRatio > maxIncompatible {
				check.Status = StatusDegraded
				check.Message = "High incompatible peak ratio"
			} else {
				check.Status = StatusHealthy
				check.Message = "Last run succeeded"
			}
		}
		return check
	}
}

// GoroutineCheck degrades when the goroutine count exceeds max
func GoroutineCheck(max int) CheckFunc {
	return func() Check {
		n := runtime.NumGoroutine()
		check := Check{
			Name:    "goroutines",
			Status:  StatusHealthy,
			Details: map[string]any{"count": n, "max": max},
		}
		if n > max {
			check.Status = StatusDegraded
			check.Message = "Too many goroutines"
		}
		return check
	}
}

// MemoryCheck degrades when allocated heap exceeds 90% of memory obtained from the OS
func MemoryCheck(getUsage func() (alloc, sys uint64)) CheckFunc {
	return func() Check {
		alloc, sys := getUsage()
		check := Check{
			Name: "memory",
			Details: map[string]any{
				"alloc_bytes": alloc,
				"sys_bytes":   sys,
			},
			Status:  StatusHealthy,
			Message: "Memory usage normal",
		}

		if sys > 0 && float64(alloc)/float64(sys) > 0.9 {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		}
		return check
	}
}

// RuntimeMemory reads the current heap usage
func RuntimeMemory() (alloc, sys uint64) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc, m.Sys
}
