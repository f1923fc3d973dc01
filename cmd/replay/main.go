// Replay feeds a recorded detection scenario through the classifier and
// scheduler, printing the resulting pattern and playback timeline. Useful
// for tuning thresholds and cadences without hardware.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/seeksense/go-seeksense/internal/config"
	"github.com/seeksense/go-seeksense/internal/log"
	"github.com/seeksense/go-seeksense/pkg/detect"
	"github.com/seeksense/go-seeksense/pkg/eventlog"
	"github.com/seeksense/go-seeksense/pkg/guidance"
	"github.com/seeksense/go-seeksense/pkg/haptic"
)

// scenario is the JSON input: a frame interval and a list of frames,
// each a list of candidates.
type scenario struct {
	IntervalMs int                  `json:"interval_ms"`
	Frames     [][]detect.Detection `json:"frames"`
}

// scenarioOracle replays the scenario's frames in order, then reports
// no detection until the run ends.
type scenarioOracle struct {
	mu     sync.Mutex
	frames [][]detect.Detection
	next   int
}

func (o *scenarioOracle) Next(ctx context.Context) ([]detect.Detection, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.next >= len(o.frames) {
		return nil, nil
	}
	frame := o.frames[o.next]
	o.next++
	return frame, nil
}

func (o *scenarioOracle) Close() error { return nil }

func (o *scenarioOracle) exhausted() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.next >= len(o.frames)
}

func main() {
	scenarioPath := flag.String("scenario", "", "scenario JSON file (required)")
	singleClass := flag.Bool("single-class", false, "use the single-class classifier thresholds")
	fastRepeat := flag.Bool("fast-repeat", false, "use the 300ms directional repeat cadence")
	dbPath := flag.String("db", "", "record the run into a SQLite event log")
	tail := flag.Duration("tail", 4*time.Second, "how long to keep running after the last frame")
	flag.Parse()

	log.Init(config.LogLevel())

	if *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay -scenario path/to/scenario.json")
		os.Exit(2)
	}

	data, err := os.ReadFile(*scenarioPath)
	if err != nil {
		log.Error("read scenario", "error", err)
		os.Exit(1)
	}
	var sc scenario
	if err := json.Unmarshal(data, &sc); err != nil {
		log.Error("parse scenario", "error", err)
		os.Exit(1)
	}

	cfg := guidance.DefaultConfig()
	if *singleClass {
		cfg = guidance.SingleClassConfig()
	}
	if sc.IntervalMs > 0 {
		cfg.FrameInterval = time.Duration(sc.IntervalMs) * time.Millisecond
	}

	schedCfg := haptic.DefaultConfig()
	if *fastRepeat {
		schedCfg = haptic.FastRepeatConfig()
	}

	sched := haptic.NewScheduler(schedCfg, haptic.ConsoleDriver{})
	oracle := &scenarioOracle{frames: sc.Frames}
	sess := guidance.NewSession(cfg, oracle, sched)

	if *dbPath != "" {
		store, err := eventlog.Open(*dbPath)
		if err != nil {
			log.Error("open event log", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		sess.SetRecorder(store)
		sched.Observer = func(p haptic.Pattern, cmd haptic.Command) {
			store.RecordPlayback(sess.ID(), p.String(),
				cmd.PulseCount, cmd.Intensity.String(), cmd.Kind.String(), time.Now())
		}
	}

	runFor := time.Duration(len(sc.Frames))*cfg.FrameInterval + *tail
	ctx, cancel := context.WithTimeout(context.Background(), runFor)
	defer cancel()

	log.Info("replay started",
		"session", sess.ID(),
		"frames", len(sc.Frames),
		"interval", cfg.FrameInterval,
		"duration", runFor)

	sess.Run(ctx)

	playbacks, dropped := sched.Stats()
	fmt.Printf("replayed %d frames: %d playbacks, %d suppressed\n",
		sess.Frames(), playbacks, dropped)
	if !oracle.exhausted() {
		fmt.Println("warning: run ended before all frames were consumed")
	}
}
