package haptic

import (
	"sync"
	"time"

	"github.com/seeksense/go-seeksense/internal/log"
)

// Scheduler turns a per-frame pattern stream into debounced haptic playback.
//
// Detections arrive at frame rate (~10/s) but are not a reliable cadence for
// a human-perceivable rhythm, so the scheduler decouples "what pattern is
// true right now" from "when to emit a pulse": OnPattern updates state, and
// owned timers replay the current pattern on a fixed cadence. Timers always
// re-read live state at fire time, never a value captured when scheduled.
//
// All state is guarded by a single mutex; OnPattern may be called from any
// goroutine. Excess playback triggers are dropped, never queued.
type Scheduler struct {
	cfg    Config
	driver Driver

	// Observer, if set before Start, is invoked at the start of every
	// accepted playback. Called from the playback goroutine.
	Observer func(p Pattern, cmd Command)

	mu        sync.Mutex
	current   Pattern
	locked    bool
	playing   bool
	lastStart time.Time
	closed    bool

	// Timer callbacks capture the generation current when they were
	// scheduled; a bumped generation marks the chain dead, so a callback
	// that was already in flight when its timer was stopped cannot
	// trigger or reschedule. At most one chain per class is live.
	seekTimer   *time.Timer
	seekGen     uint64
	repeatTimer *time.Timer
	repeatGen   uint64
	lockTimer   *time.Timer

	playbacks uint64 // accepted playback starts
	dropped   uint64 // triggers suppressed by the playback guard
}

// NewScheduler creates a scheduler in the Seeking state. Call Start to
// begin the seeking heartbeat.
func NewScheduler(cfg Config, driver Driver) *Scheduler {
	return &Scheduler{
		cfg:     cfg.withDefaults(),
		driver:  driver,
		current: Seeking,
	}
}

// Start begins the seeking heartbeat. Safe to call once per scheduler.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.startSeekLocked()
}

// OnPattern delivers one frame's classification result.
// Identical consecutive patterns are idempotent; all input is ignored
// while the post-success lockout is active.
func (s *Scheduler) OnPattern(p Pattern) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.locked {
		return
	}
	if p == s.current {
		return
	}
	s.current = p

	switch {
	case p == Seeking:
		s.stopRepeatLocked()
		s.startSeekLocked()

	case p == Success:
		s.stopRepeatLocked()
		s.stopSeekLocked()
		s.locked = true
		s.triggerLocked(Success)
		s.stopLockLocked()
		s.lockTimer = time.AfterFunc(s.cfg.LockoutDuration, s.lockoutExpired)
		log.Info("guidance success, locking out", "duration", s.cfg.LockoutDuration)

	default:
		s.stopSeekLocked()
		s.triggerLocked(p)
		s.startRepeatLocked()
	}
}

// Current returns the current pattern and whether the lockout is active.
func (s *Scheduler) Current() (Pattern, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.locked
}

// Stats returns the number of accepted and suppressed playback starts.
func (s *Scheduler) Stats() (playbacks, dropped uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playbacks, s.dropped
}

// Close cancels every live timer and rejects further input.
// An in-flight playback sequence stops before its next pulse.
func (s *Scheduler) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	s.stopSeekLocked()
	s.stopRepeatLocked()
	s.stopLockLocked()
	return nil
}

// seekTick fires on the seeking heartbeat. It re-reads state at fire
// time; a callback from a stopped chain (gen mismatch) or one that
// raced a transition away from Seeking dies without rescheduling.
func (s *Scheduler) seekTick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.seekGen {
		return
	}
	if s.closed || s.locked || s.current != Seeking {
		return
	}
	s.triggerLocked(Seeking)
	s.seekTimer = time.AfterFunc(s.cfg.SeekingInterval, func() { s.seekTick(gen) })
}

// repeatTick replays the current directional pattern, re-read at fire
// time. The generation check keeps a stale callback from forking a
// second chain: a directional transition stops the old chain and starts
// a fresh one, but the old callback may already be in flight waiting on
// the lock, still seeing a directional pattern when it gets it.
func (s *Scheduler) repeatTick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.repeatGen {
		return
	}
	if s.closed || s.locked || !s.current.Directional() {
		return
	}
	s.triggerLocked(s.current)
	s.repeatTimer = time.AfterFunc(s.cfg.RepeatInterval, func() { s.repeatTick(gen) })
}

// lockoutExpired ends the post-success lockout and returns the machine
// to its initial seeking behavior.
func (s *Scheduler) lockoutExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.locked = false
	s.current = Seeking
	s.startSeekLocked()
	log.Debug("lockout expired, seeking resumed")
}

// triggerLocked attempts a playback of p. The guard suppresses the
// trigger when a sequence is in flight or the previous playback started
// less than Cooldown ago. Callers must hold s.mu.
func (s *Scheduler) triggerLocked(p Pattern) {
	now := time.Now()
	if s.playing || (!s.lastStart.IsZero() && now.Sub(s.lastStart) < s.cfg.Cooldown) {
		s.dropped++
		log.Debug("playback suppressed", "pattern", p.String())
		return
	}
	s.playing = true
	s.lastStart = now
	s.playbacks++
	go s.play(p, CommandFor(p))
}

// play emits one pulse sequence. Runs outside the lock; inter-pulse
// spacing is the only operation that suspends, and the playing flag
// stays set for its whole duration so concurrent triggers no-op.
func (s *Scheduler) play(p Pattern, cmd Command) {
	defer func() {
		s.mu.Lock()
		s.playing = false
		s.mu.Unlock()
	}()

	if s.Observer != nil {
		s.Observer(p, cmd)
	}

	for i := 0; i < cmd.PulseCount; i++ {
		if i > 0 {
			time.Sleep(s.cfg.PulseGap)
		}
		s.mu.Lock()
		closed := s.closed
		s.mu.Unlock()
		if closed {
			return
		}
		if err := s.driver.Pulse(cmd.Intensity, cmd.Kind); err != nil {
			// Non-fatal: drop the rest of the sequence, the next
			// natural trigger will try again.
			log.Warn("haptic driver error", "pattern", p.String(), "error", err)
			return
		}
	}
}

func (s *Scheduler) startSeekLocked() {
	s.stopSeekLocked()
	gen := s.seekGen
	s.seekTimer = time.AfterFunc(s.cfg.SeekingInterval, func() { s.seekTick(gen) })
}

func (s *Scheduler) stopSeekLocked() {
	s.seekGen++
	if s.seekTimer != nil {
		s.seekTimer.Stop()
		s.seekTimer = nil
	}
}

func (s *Scheduler) startRepeatLocked() {
	s.stopRepeatLocked()
	gen := s.repeatGen
	s.repeatTimer = time.AfterFunc(s.cfg.RepeatInterval, func() { s.repeatTick(gen) })
}

func (s *Scheduler) stopRepeatLocked() {
	s.repeatGen++
	if s.repeatTimer != nil {
		s.repeatTimer.Stop()
		s.repeatTimer = nil
	}
}

func (s *Scheduler) stopLockLocked() {
	if s.lockTimer != nil {
		s.lockTimer.Stop()
		s.lockTimer = nil
	}
}
