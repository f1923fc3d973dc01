package guidance

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/seeksense/go-seeksense/internal/log"
	"github.com/seeksense/go-seeksense/pkg/detect"
	"github.com/seeksense/go-seeksense/pkg/haptic"
)

// Oracle produces one detection result per processed frame.
// An error or an empty result both mean "no detection" for that frame.
type Oracle interface {
	// Next blocks until the next frame's detections are available or ctx
	// is done.
	Next(ctx context.Context) ([]detect.Detection, error)

	// Close releases oracle resources.
	Close() error
}

// StateUpdater receives session state snapshots (for the dashboard).
type StateUpdater interface {
	UpdateGuidance(st State)
}

// Recorder persists pattern transitions (for the event log).
type Recorder interface {
	RecordTransition(sessionID, from, to string, at time.Time) error
}

// State is a snapshot of a running session.
type State struct {
	SessionID  string `json:"session_id"`
	Pattern    string `json:"pattern"`
	Locked     bool   `json:"locked"`
	Frames     uint64 `json:"frames"`
	Misses     int    `json:"consecutive_misses"`
	Detections int    `json:"detections"`
}

// Session runs one guidance session: it polls the oracle at the frame
// interval, classifies each result, and feeds the pattern stream to the
// scheduler. One Session per guidance attempt; state is never persisted.
type Session struct {
	cfg        Config
	oracle     Oracle
	classifier *Classifier
	sched      *haptic.Scheduler

	state StateUpdater // optional
	rec   Recorder     // optional

	id string

	mu          sync.Mutex
	lastPattern haptic.Pattern
	frames      uint64
	misses      int
	detections  int
}

// NewSession creates a session over the given oracle and scheduler.
func NewSession(cfg Config, oracle Oracle, sched *haptic.Scheduler) *Session {
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = DefaultConfig().FrameInterval
	}
	return &Session{
		cfg:         cfg,
		oracle:      oracle,
		classifier:  NewClassifier(cfg),
		sched:       sched,
		id:          uuid.NewString(),
		lastPattern: haptic.Seeking,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// SetStateUpdater sets the dashboard state updater.
func (s *Session) SetStateUpdater(state StateUpdater) {
	s.state = state
}

// SetRecorder sets the event log recorder.
func (s *Session) SetRecorder(rec Recorder) {
	s.rec = rec
}

// Run starts the scheduler heartbeat and the frame loop. Blocks until
// ctx is cancelled; on return every scheduler timer is cancelled.
func (s *Session) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.FrameInterval)
	defer ticker.Stop()
	defer s.sched.Close()

	s.sched.Start()
	log.Info("guidance session started",
		"session", s.id,
		"interval", s.cfg.FrameInterval,
		"threshold", s.cfg.ScoreThreshold,
		"target_class", s.cfg.TargetClass)

	for {
		select {
		case <-ctx.Done():
			log.Info("guidance session stopped", "session", s.id, "frames", s.Frames())
			return
		case <-ticker.C:
			s.step(ctx)
		}
	}
}

// step processes one frame: poll the oracle, classify, dispatch.
func (s *Session) step(ctx context.Context) {
	frameCtx, cancel := context.WithTimeout(ctx, s.cfg.FrameInterval)
	dets, err := s.oracle.Next(frameCtx)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		// Oracle trouble is diagnostic only; the frame counts as no
		// detection so guidance falls back to seeking.
		log.Debug("oracle error", "session", s.id, "error", err)
		dets = nil
	}

	pattern, found := s.classifier.Classify(dets)
	if !found {
		pattern = haptic.Seeking
	}

	s.sched.OnPattern(pattern)

	s.mu.Lock()
	s.frames++
	if found {
		s.misses = 0
	} else {
		s.misses++
	}
	s.detections = len(dets)
	changed := pattern != s.lastPattern
	prev := s.lastPattern
	s.lastPattern = pattern
	s.mu.Unlock()

	if changed {
		log.Debug("pattern transition", "session", s.id, "from", prev.String(), "to", pattern.String())
		if s.rec != nil {
			if err := s.rec.RecordTransition(s.id, prev.String(), pattern.String(), time.Now()); err != nil {
				log.Warn("event log write failed", "error", err)
			}
		}
	}
	if s.state != nil {
		s.state.UpdateGuidance(s.snapshot())
	}
}

// Frames returns the number of processed frames.
func (s *Session) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Misses returns the current run of consecutive no-detection frames.
func (s *Session) Misses() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.misses
}

func (s *Session) snapshot() State {
	current, locked := s.sched.Current()

	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		SessionID:  s.id,
		Pattern:    current.String(),
		Locked:     locked,
		Frames:     s.frames,
		Misses:     s.misses,
		Detections: s.detections,
	}
}
