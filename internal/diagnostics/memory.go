// Package diagnostics reports resource usage of the supervising process.
package diagnostics

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessMemoryMB returns the resident set size of the supervising process
// in megabytes, as reported by the OS.
//
// This deliberately measures the supervisor, not the worker it just ran:
// the supervisor is the process an external manager replaces when the
// ceiling is reached.
func ProcessMemoryMB() (float64, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, err
	}
	info, err := p.MemoryInfo()
	if err != nil {
		return 0, err
	}
	return float64(info.RSS) / 1024 / 1024, nil
}

// Snapshot captures supervisor resource state at a point in time.
type Snapshot struct {
	Timestamp  time.Time     `json:"timestamp"`
	ResidentMB float64       `json:"resident_mb"`
	Goroutines int           `json:"goroutines"`
	Uptime     time.Duration `json:"uptime"`
}

// TakeSnapshot collects a snapshot relative to the given start time.
// A failed memory probe leaves ResidentMB at zero rather than failing the
// snapshot; callers log snapshots, they never branch on them.
func TakeSnapshot(started time.Time) Snapshot {
	s := Snapshot{
		Timestamp:  time.Now(),
		Goroutines: runtime.NumGoroutine(),
		Uptime:     time.Since(started),
	}
	if mb, err := ProcessMemoryMB(); err == nil {
		s.ResidentMB = mb
	}
	return s
}
