package scraper

import (
	"sync"
	"time"
)

// Snapshot is a read-only view of the live run state for pollers.
type Snapshot struct {
	IsRunning     bool     `json:"is_running"`
	StopRequested bool     `json:"stop_requested"`
	CurrentAction string   `json:"current_action"`
	Lines         []string `json:"logs"`
}

// Progress is the process-wide, run-scoped live state: at most one run may
// be active, its log lines are visible to concurrent pollers, and an
// external stop request is surfaced to the run as a flag it checks at court
// boundaries. Lines are appended in order and survive Finish until the next
// Start.
type Progress struct {
	mu            sync.Mutex
	running       bool
	stopRequested bool
	currentAction string
	lines         []string
}

// NewProgress constructs an idle Progress.
func NewProgress() *Progress {
	return &Progress{currentAction: "Idle"}
}

// Start transitions to running and resets the log. It fails with
// ErrAlreadyRunning if a run is active, leaving that run's state untouched.
func (p *Progress) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return ErrAlreadyRunning
	}
	p.running = true
	p.stopRequested = false
	p.currentAction = "Starting"
	p.lines = nil
	return nil
}

// Append adds a timestamped log line. Lines are never reordered or dropped
// while the run is active, so successive poller snapshots are always
// prefix-extensions of earlier ones.
func (p *Progress) Append(line string) {
	stamped := "[" + time.Now().Format("15:04:05") + "] " + line
	p.mu.Lock()
	p.lines = append(p.lines, stamped)
	p.currentAction = line
	p.mu.Unlock()
}

// RequestStop sets the stop flag. It reports whether a run was active to
// receive it. The flag is consumed by the run at court boundaries only;
// callers never clear it.
func (p *Progress) RequestStop() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return false
	}
	p.stopRequested = true
	return true
}

// StopRequested reports whether a stop has been requested for the active run.
func (p *Progress) StopRequested() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopRequested
}

// Snapshot returns a copy of the current state. Safe to call concurrently
// with the run; never blocks it beyond the mutex hold.
func (p *Progress) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	lines := make([]string, len(p.lines))
	copy(lines, p.lines)
	return Snapshot{
		IsRunning:     p.running,
		StopRequested: p.stopRequested,
		CurrentAction: p.currentAction,
		Lines:         lines,
	}
}

// Finish transitions back to idle. The log lines remain readable until the
// next Start.
func (p *Progress) Finish() {
	p.mu.Lock()
	p.running = false
	p.stopRequested = false
	p.currentAction = "Idle"
	p.mu.Unlock()
}
