package procctl_test

import (
	"errors"
	"testing"
	"time"

	"ahn/internal/procctl"
)

type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

type sentSignal struct {
	pid int
	sig procctl.Signal
	at  time.Time
}

// fakeProcess simulates one process driven by the fake clock.
type fakeProcess struct {
	clock *fakeClock
	pid   int

	exists       bool
	exitAfter    time.Duration // after graceful signal; <0 ignores it
	survivesKill bool
	vanishBefore procctl.Signal
	signalErr    error
	probeErr     error

	termAt time.Time
	dead   bool
	sent   []sentSignal
	probes int
}

func (p *fakeProcess) Signal(pid int, sig procctl.Signal) error {
	p.sent = append(p.sent, sentSignal{pid: pid, sig: sig, at: p.clock.Now()})
	if p.signalErr != nil {
		return p.signalErr
	}
	if p.vanishBefore == sig {
		p.dead = true
	}
	if !p.exists || p.dead || pid != p.pid {
		return procctl.ErrNoProcess
	}
	switch sig {
	case procctl.SignalGraceful:
		p.termAt = p.clock.Now()
	case procctl.SignalForceful:
		if !p.survivesKill {
			p.dead = true
		}
	}
	return nil
}

func (p *fakeProcess) Alive(pid int) (bool, error) {
	p.probes++
	if p.probeErr != nil {
		return false, p.probeErr
	}
	if !p.exists || p.dead || pid != p.pid {
		return false, nil
	}
	if !p.termAt.IsZero() && p.exitAfter >= 0 && !p.clock.Now().Before(p.termAt.Add(p.exitAfter)) {
		p.dead = true
		return false, nil
	}
	return true, nil
}

func (p *fakeProcess) count(sig procctl.Signal) int {
	n := 0
	for _, s := range p.sent {
		if s.sig == sig {
			n++
		}
	}
	return n
}

func newCoordinator(p *fakeProcess, clock *fakeClock, killGrace time.Duration) *procctl.Coordinator {
	return procctl.NewCoordinator(p, procctl.Options{
		Timeout:      15 * time.Second,
		PollInterval: 250 * time.Millisecond,
		KillGrace:    killGrace,
		Clock:        clock,
	})
}

func TestTerminateAlreadyStoppedDoesNotBlock(t *testing.T) {
	clock := newFakeClock()
	proc := &fakeProcess{clock: clock, pid: 9999}

	res, err := newCoordinator(proc, clock, time.Second).Terminate(9999)
	if err != nil {
		t.Fatalf("Terminate returned error: %v", err)
	}
	if res.Outcome != procctl.OutcomeAlreadyStopped {
		t.Fatalf("expected already_stopped, got %s", res.Outcome)
	}
	if len(clock.sleeps) != 0 {
		t.Fatalf("expected no sleeps, got %v", clock.sleeps)
	}
	if res.Elapsed != 0 || res.GracefulSent || res.ForcefulSent || res.Polls != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if proc.probes != 0 {
		t.Fatalf("expected no liveness probes, got %d", proc.probes)
	}
}

func TestTerminateGracefulExitWithinDeadline(t *testing.T) {
	clock := newFakeClock()
	proc := &fakeProcess{clock: clock, pid: 4242, exists: true, exitAfter: time.Second}

	res, err := newCoordinator(proc, clock, time.Second).Terminate(4242)
	if err != nil {
		t.Fatalf("Terminate returned error: %v", err)
	}
	if res.Outcome != procctl.OutcomeStoppedGracefully {
		t.Fatalf("expected stopped_gracefully, got %s", res.Outcome)
	}
	if res.Elapsed != time.Second {
		t.Fatalf("expected elapsed 1s, got %s", res.Elapsed)
	}
	if proc.count(procctl.SignalForceful) != 0 {
		t.Fatal("forceful signal must not be sent to a process that exits in time")
	}
	if proc.count(procctl.SignalGraceful) != 1 {
		t.Fatalf("expected exactly one graceful signal, got %d", proc.count(procctl.SignalGraceful))
	}
	if res.ForcefulSent || !res.GracefulSent {
		t.Fatalf("unexpected signal flags %+v", res)
	}
}

func TestTerminateEscalatesAfterDeadline(t *testing.T) {
	clock := newFakeClock()
	start := clock.Now()
	proc := &fakeProcess{clock: clock, pid: 77, exists: true, exitAfter: -1}

	res, err := newCoordinator(proc, clock, time.Second).Terminate(77)
	if err != nil {
		t.Fatalf("Terminate returned error: %v", err)
	}
	if res.Outcome != procctl.OutcomeStoppedForcefully {
		t.Fatalf("expected stopped_forcefully, got %s", res.Outcome)
	}
	if proc.count(procctl.SignalGraceful) != 1 || proc.count(procctl.SignalForceful) != 1 {
		t.Fatalf("expected one TERM and one KILL, got %+v", proc.sent)
	}
	if proc.sent[0].sig != procctl.SignalGraceful || proc.sent[1].sig != procctl.SignalForceful {
		t.Fatalf("signals out of order: %+v", proc.sent)
	}
	if got := proc.sent[1].at.Sub(start); got != 15*time.Second {
		t.Fatalf("expected KILL at the 15s deadline, got %s", got)
	}
	for i, d := range clock.sleeps {
		if d != 250*time.Millisecond {
			t.Fatalf("sleep %d: expected fixed 250ms interval, got %s", i, d)
		}
	}
	// 61 checks between TERM and the deadline, one after KILL.
	if res.Polls != 62 {
		t.Fatalf("expected 62 polls, got %d", res.Polls)
	}
}

func TestTerminateVanishesBeforeKill(t *testing.T) {
	clock := newFakeClock()
	proc := &fakeProcess{clock: clock, pid: 5, exists: true, exitAfter: -1, vanishBefore: procctl.SignalForceful}

	res, err := newCoordinator(proc, clock, time.Second).Terminate(5)
	if err != nil {
		t.Fatalf("race between probe and kill must not surface as error: %v", err)
	}
	if res.Outcome != procctl.OutcomeStoppedForcefully {
		t.Fatalf("expected stopped_forcefully, got %s", res.Outcome)
	}
	if !res.ForcefulSent {
		t.Fatal("expected forceful signal to have been attempted")
	}
}

func TestTerminateSurvivesKill(t *testing.T) {
	clock := newFakeClock()
	proc := &fakeProcess{clock: clock, pid: 6, exists: true, exitAfter: -1, survivesKill: true}

	res, err := newCoordinator(proc, clock, time.Second).Terminate(6)
	if err != nil {
		t.Fatalf("Terminate returned error: %v", err)
	}
	if res.Outcome != procctl.OutcomeTimedOutStillRunning {
		t.Fatalf("expected timed_out_still_running, got %s", res.Outcome)
	}
	if res.Outcome.Stopped() {
		t.Fatal("timed out outcome must not count as stopped")
	}
	if res.Elapsed != 16*time.Second {
		t.Fatalf("expected elapsed timeout plus kill grace, got %s", res.Elapsed)
	}
	if proc.count(procctl.SignalForceful) != 1 {
		t.Fatalf("expected exactly one forceful signal, got %d", proc.count(procctl.SignalForceful))
	}
}

func TestTerminateTrustsKillWithoutGrace(t *testing.T) {
	clock := newFakeClock()
	proc := &fakeProcess{clock: clock, pid: 6, exists: true, exitAfter: -1, survivesKill: true}

	res, err := newCoordinator(proc, clock, 0).Terminate(6)
	if err != nil {
		t.Fatalf("Terminate returned error: %v", err)
	}
	if res.Outcome != procctl.OutcomeStoppedForcefully {
		t.Fatalf("expected stopped_forcefully without verification, got %s", res.Outcome)
	}
}

func TestTerminateSignalPermissionError(t *testing.T) {
	clock := newFakeClock()
	denied := errors.New("operation not permitted")
	proc := &fakeProcess{clock: clock, pid: 1, exists: true, signalErr: denied}

	_, err := newCoordinator(proc, clock, time.Second).Terminate(1)
	if !errors.Is(err, denied) {
		t.Fatalf("expected permission error, got %v", err)
	}
}

func TestTerminateProbeErrorEscalates(t *testing.T) {
	clock := newFakeClock()
	proc := &fakeProcess{clock: clock, pid: 8, exists: true, exitAfter: 0, probeErr: errors.New("probe broke")}

	res, err := newCoordinator(proc, clock, 0).Terminate(8)
	if err != nil {
		t.Fatalf("Terminate returned error: %v", err)
	}
	if res.Outcome != procctl.OutcomeStoppedForcefully {
		t.Fatalf("expected escalation when liveness cannot be observed, got %s", res.Outcome)
	}
}

func TestNewCoordinatorDefaults(t *testing.T) {
	c := procctl.NewCoordinator(&fakeProcess{}, procctl.Options{})
	if c.Timeout() != procctl.DefaultTimeout {
		t.Fatalf("expected default timeout, got %s", c.Timeout())
	}
}

func TestOutcomeStopped(t *testing.T) {
	for _, o := range []procctl.Outcome{procctl.OutcomeAlreadyStopped, procctl.OutcomeStoppedGracefully, procctl.OutcomeStoppedForcefully} {
		if !o.Stopped() {
			t.Fatalf("%s should count as stopped", o)
		}
	}
}
