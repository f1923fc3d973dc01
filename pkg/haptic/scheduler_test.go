package haptic

import (
	"errors"
	"testing"
	"time"
)

// testConfig returns scheduler timings scaled down for fast tests.
func testConfig() Config {
	return Config{
		SeekingInterval: 60 * time.Millisecond,
		RepeatInterval:  60 * time.Millisecond,
		LockoutDuration: 150 * time.Millisecond,
		Cooldown:        30 * time.Millisecond,
		PulseGap:        5 * time.Millisecond,
	}
}

// waitPulses polls until the mock has recorded at least n pulses.
func waitPulses(t *testing.T, mock *MockDriver, n int, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if mock.PulseCount() >= n {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d pulses, got %d", n, mock.PulseCount())
}

func TestScheduler_ImmediatePlaybackOnTransition(t *testing.T) {
	mock := &MockDriver{}
	s := NewScheduler(testConfig(), mock)
	defer s.Close()

	s.OnPattern(LeftFar)
	waitPulses(t, mock, 2, 100*time.Millisecond)

	for _, p := range mock.Pulses() {
		if p.Intensity != Weak || p.Kind != Standard {
			t.Errorf("LeftFar pulse: got intensity=%v kind=%v, want weak standard", p.Intensity, p.Kind)
		}
	}
}

func TestScheduler_IdempotentPattern(t *testing.T) {
	cfg := testConfig()
	cfg.RepeatInterval = 300 * time.Millisecond // keep repeats out of the window
	mock := &MockDriver{}
	s := NewScheduler(cfg, mock)
	defer s.Close()

	s.OnPattern(LeftFar)
	s.OnPattern(LeftFar)
	s.OnPattern(LeftFar)

	time.Sleep(100 * time.Millisecond)

	// One playback of two pulses, not three playbacks.
	if got := mock.PulseCount(); got != 2 {
		t.Errorf("pulses after repeated identical patterns: got %d, want 2", got)
	}
	if playbacks, _ := s.Stats(); playbacks != 1 {
		t.Errorf("playbacks: got %d, want 1", playbacks)
	}
}

func TestScheduler_DirectionalRepeat(t *testing.T) {
	mock := &MockDriver{}
	s := NewScheduler(testConfig(), mock)
	defer s.Close()

	s.OnPattern(RightNear) // 4 strong pulses per playback

	// Immediate playback plus at least two repeats.
	waitPulses(t, mock, 12, 500*time.Millisecond)

	for _, p := range mock.Pulses() {
		if p.Intensity != Strong {
			t.Errorf("RightNear pulse: got %v, want strong", p.Intensity)
		}
	}
}

func TestScheduler_RepeatReadsCurrentPattern(t *testing.T) {
	mock := &MockDriver{}
	s := NewScheduler(testConfig(), mock)
	defer s.Close()

	s.OnPattern(LeftNear) // 2 strong pulses
	waitPulses(t, mock, 2, 100*time.Millisecond)

	time.Sleep(35 * time.Millisecond) // clear the cooldown
	s.OnPattern(RightNear)            // 4 strong pulses, immediate

	waitPulses(t, mock, 6, 200*time.Millisecond)
	// Let the repeat timer fire at least once more; it must replay
	// RightNear (4 pulses), not the stale LeftNear.
	waitPulses(t, mock, 10, 500*time.Millisecond)
}

func TestScheduler_SingleRepeatChainUnderDirectionFlicker(t *testing.T) {
	cfg := testConfig()
	cfg.RepeatInterval = 20 * time.Millisecond
	cfg.Cooldown = 1 * time.Millisecond
	mock := &MockDriver{}
	s := NewScheduler(cfg, mock)
	defer s.Close()

	// Flip direction on the repeat cadence so transitions land right
	// around repeat-timer fires. A callback already in flight during a
	// transition must not survive as a second live chain.
	patterns := []Pattern{LeftFar, RightFar}
	for i := 0; i < 100; i++ {
		s.OnPattern(patterns[i%2])
		time.Sleep(cfg.RepeatInterval)
	}

	// Quiet window with no transitions: a single live chain triggers
	// once per RepeatInterval, whether the trigger plays or is
	// suppressed. Leaked chains multiply that rate.
	beforePlay, beforeDrop := s.Stats()
	window := 500 * time.Millisecond
	time.Sleep(window)
	afterPlay, afterDrop := s.Stats()

	triggers := (afterPlay - beforePlay) + (afterDrop - beforeDrop)
	budget := uint64(window/cfg.RepeatInterval) + 5
	if triggers > budget {
		t.Errorf("repeat triggers in quiet window: got %d, want at most %d", triggers, budget)
	}
}

func TestScheduler_SingleSeekChainAfterFlicker(t *testing.T) {
	cfg := testConfig()
	cfg.SeekingInterval = 20 * time.Millisecond
	cfg.Cooldown = 1 * time.Millisecond
	mock := &MockDriver{}
	s := NewScheduler(cfg, mock)
	defer s.Close()

	s.Start()
	// Bounce out of and back into Seeking around heartbeat fires.
	for i := 0; i < 100; i++ {
		s.OnPattern(LeftFar)
		s.OnPattern(Seeking)
		time.Sleep(cfg.SeekingInterval)
	}

	beforePlay, beforeDrop := s.Stats()
	window := 500 * time.Millisecond
	time.Sleep(window)
	afterPlay, afterDrop := s.Stats()

	triggers := (afterPlay - beforePlay) + (afterDrop - beforeDrop)
	budget := uint64(window/cfg.SeekingInterval) + 5
	if triggers > budget {
		t.Errorf("seek triggers in quiet window: got %d, want at most %d", triggers, budget)
	}
}

func TestScheduler_CooldownInvariant(t *testing.T) {
	cfg := testConfig()
	cfg.Cooldown = 100 * time.Millisecond
	cfg.RepeatInterval = 20 * time.Millisecond // fires well inside the cooldown
	mock := &MockDriver{}
	s := NewScheduler(cfg, mock)
	defer s.Close()

	s.OnPattern(CenterFar) // 3 pulses per playback
	time.Sleep(350 * time.Millisecond)

	pulses := mock.Pulses()
	if len(pulses)%3 != 0 || len(pulses) == 0 {
		t.Fatalf("pulse count %d is not a whole number of 3-pulse playbacks", len(pulses))
	}

	// Playback starts are every third pulse; no two may be closer
	// than the cooldown.
	var lastStart time.Time
	for i := 0; i < len(pulses); i += 3 {
		if i > 0 {
			gap := pulses[i].Time.Sub(lastStart)
			if gap < cfg.Cooldown-10*time.Millisecond {
				t.Errorf("playback starts %v apart, cooldown is %v", gap, cfg.Cooldown)
			}
		}
		lastStart = pulses[i].Time
	}

	if _, dropped := s.Stats(); dropped == 0 {
		t.Error("expected some repeat triggers to be suppressed by the cooldown")
	}
}

func TestScheduler_SeekingHeartbeat(t *testing.T) {
	mock := &MockDriver{}
	s := NewScheduler(testConfig(), mock)
	defer s.Close()

	s.Start()
	waitPulses(t, mock, 2, 500*time.Millisecond)

	for _, p := range mock.Pulses() {
		if p.Intensity != Weak || p.Kind != Standard {
			t.Errorf("seeking pulse: got intensity=%v kind=%v, want weak standard", p.Intensity, p.Kind)
		}
	}
}

func TestScheduler_SuccessLockout(t *testing.T) {
	mock := &MockDriver{}
	s := NewScheduler(testConfig(), mock)
	defer s.Close()

	s.OnPattern(Success)
	waitPulses(t, mock, 1, 100*time.Millisecond)

	if p, locked := s.Current(); p != Success || !locked {
		t.Errorf("after success: got pattern=%v locked=%v, want Success locked", p, locked)
	}

	// Detector flicker during the lockout must be ignored.
	for i := 0; i < 6; i++ {
		s.OnPattern(LeftFar)
		s.OnPattern(RightNear)
		time.Sleep(20 * time.Millisecond)
	}

	if got := mock.PulseCount(); got != 1 {
		t.Errorf("pulses during lockout: got %d, want 1 (celebratory only)", got)
	}
	if mock.Pulses()[0].Kind != Celebratory {
		t.Errorf("success pulse kind: got %v, want celebratory", mock.Pulses()[0].Kind)
	}
}

func TestScheduler_LockoutRoundTrip(t *testing.T) {
	mock := &MockDriver{}
	s := NewScheduler(testConfig(), mock)
	defer s.Close()

	s.OnPattern(Success)
	waitPulses(t, mock, 1, 100*time.Millisecond)

	// Wait out the lockout with no further input.
	time.Sleep(200 * time.Millisecond)

	if p, locked := s.Current(); p != Seeking || locked {
		t.Errorf("after lockout: got pattern=%v locked=%v, want Seeking unlocked", p, locked)
	}

	// The seeking heartbeat must have resumed.
	waitPulses(t, mock, 2, 500*time.Millisecond)
	pulses := mock.Pulses()
	last := pulses[len(pulses)-1]
	if last.Intensity != Weak || last.Kind != Standard {
		t.Errorf("post-lockout pulse: got intensity=%v kind=%v, want weak standard", last.Intensity, last.Kind)
	}
}

func TestScheduler_SuccessCancelsRepeat(t *testing.T) {
	mock := &MockDriver{}
	s := NewScheduler(testConfig(), mock)
	defer s.Close()

	s.OnPattern(LeftFar)
	waitPulses(t, mock, 2, 100*time.Millisecond)

	time.Sleep(35 * time.Millisecond)
	s.OnPattern(Success)
	waitPulses(t, mock, 3, 100*time.Millisecond)

	count := mock.PulseCount()
	time.Sleep(150 * time.Millisecond) // several repeat periods inside lockout

	if got := mock.PulseCount(); got != count {
		t.Errorf("directional repeat fired during lockout: %d pulses grew to %d", count, got)
	}
}

func TestScheduler_CloseCancelsTimers(t *testing.T) {
	mock := &MockDriver{}
	s := NewScheduler(testConfig(), mock)

	s.Start()
	s.OnPattern(CenterNear)
	waitPulses(t, mock, 3, 100*time.Millisecond)

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	count := mock.PulseCount()

	time.Sleep(250 * time.Millisecond)
	if got := mock.PulseCount(); got != count {
		t.Errorf("pulses after Close: %d grew to %d", count, got)
	}

	if err := s.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close: got %v, want ErrClosed", err)
	}
}

func TestScheduler_DriverErrorReleasesGuard(t *testing.T) {
	mock := FailingDriver(errors.New("device busy"))
	s := NewScheduler(testConfig(), mock)
	defer s.Close()

	s.OnPattern(LeftFar)
	waitPulses(t, mock, 1, 100*time.Millisecond)

	time.Sleep(40 * time.Millisecond) // past the cooldown
	s.OnPattern(CenterFar)

	// The failed playback must not leave the guard held: the next
	// transition attempts the driver again.
	waitPulses(t, mock, 2, 200*time.Millisecond)
}

func TestScheduler_ObserverSeesPlaybacks(t *testing.T) {
	mock := &MockDriver{}
	s := NewScheduler(testConfig(), mock)
	defer s.Close()

	type playback struct {
		pattern Pattern
		cmd     Command
	}
	seen := make(chan playback, 8)
	s.Observer = func(p Pattern, cmd Command) {
		seen <- playback{pattern: p, cmd: cmd}
	}

	s.OnPattern(RightFar)

	select {
	case pb := <-seen:
		if pb.pattern != RightFar {
			t.Errorf("observer pattern: got %v, want RightFar", pb.pattern)
		}
		if pb.cmd.PulseCount != 4 {
			t.Errorf("observer pulse count: got %d, want 4", pb.cmd.PulseCount)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("observer was not notified of playback")
	}
}
