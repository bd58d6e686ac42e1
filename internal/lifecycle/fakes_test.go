package lifecycle_test

import (
	"context"
	"errors"
	"time"

	"ahn/internal/history"
	"ahn/internal/launcher"
	"ahn/internal/procctl"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time        { return c.now }
func (c *fakeClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

// fakeProcesses is a process table driven by a fake clock. Only signals
// delivered to an existing process are recorded.
type fakeProcesses struct {
	clock *fakeClock
	// exitAfter maps live pids to how long they take to exit after TERM;
	// a negative value ignores TERM.
	exitAfter map[int]time.Duration
	termAt    map[int]time.Time
	delivered []procctl.Signal
	attempts  int
}

func newFakeProcesses(clock *fakeClock) *fakeProcesses {
	return &fakeProcesses{clock: clock, exitAfter: map[int]time.Duration{}, termAt: map[int]time.Time{}}
}

func (p *fakeProcesses) Signal(pid int, sig procctl.Signal) error {
	p.attempts++
	if alive, _ := p.Alive(pid); !alive {
		return procctl.ErrNoProcess
	}
	p.delivered = append(p.delivered, sig)
	switch sig {
	case procctl.SignalGraceful:
		p.termAt[pid] = p.clock.Now()
	case procctl.SignalForceful:
		delete(p.exitAfter, pid)
	}
	return nil
}

func (p *fakeProcesses) Alive(pid int) (bool, error) {
	after, ok := p.exitAfter[pid]
	if !ok {
		return false, nil
	}
	if at, signalled := p.termAt[pid]; signalled && after >= 0 && !p.clock.Now().Before(at.Add(after)) {
		delete(p.exitAfter, pid)
		return false, nil
	}
	return true, nil
}

func (p *fakeProcesses) count(sig procctl.Signal) int {
	n := 0
	for _, s := range p.delivered {
		if s == sig {
			n++
		}
	}
	return n
}

type recordingLauncher struct {
	requests []launcher.Request
	err      error
	pid      int
	trail    *[]string
}

func (l *recordingLauncher) Launch(_ context.Context, req launcher.Request) (launcher.Result, error) {
	l.requests = append(l.requests, req)
	if l.trail != nil {
		*l.trail = append(*l.trail, "launch:"+string(req.Mode))
	}
	res := launcher.Result{LaunchID: "launch-1"}
	if req.Mode == launcher.ModeDaemon {
		res.PID = l.pid
		res.LogPath = req.LogPath
	}
	return res, l.err
}

type stubTerminator struct {
	result procctl.Result
	err    error
	pids   []int
	trail  *[]string
}

func (s *stubTerminator) Terminate(pid int) (procctl.Result, error) {
	s.pids = append(s.pids, pid)
	if s.trail != nil {
		*s.trail = append(*s.trail, "terminate")
	}
	res := s.result
	res.PID = pid
	return res, s.err
}

type stubProbe struct {
	alive bool
	err   error
}

func (p stubProbe) Alive(int) (bool, error) { return p.alive, p.err }

type failingRecorder struct{}

func (failingRecorder) Record(context.Context, history.Event) (int64, error) {
	return 0, errors.New("disk full")
}
