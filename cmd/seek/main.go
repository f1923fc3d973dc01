// Seek is the guidance daemon: it consumes a detection stream (remote
// feed or local camera inference), classifies each frame, and drives
// haptic guidance toward the target object.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/seeksense/go-seeksense/internal/config"
	"github.com/seeksense/go-seeksense/internal/log"
	"github.com/seeksense/go-seeksense/pkg/eventlog"
	"github.com/seeksense/go-seeksense/pkg/feed"
	"github.com/seeksense/go-seeksense/pkg/guidance"
	"github.com/seeksense/go-seeksense/pkg/haptic"
	"github.com/seeksense/go-seeksense/pkg/vision"
	"github.com/seeksense/go-seeksense/pkg/web"
)

func main() {
	feedURL := flag.String("feed", "", "detection feed URL (ws://host:port/detections); empty uses local camera")
	cameraID := flag.Int("camera", 0, "camera device index for local inference")
	modelPath := flag.String("model", config.ModelPath(), "ONNX detection model for local inference")
	driverName := flag.String("driver", "console", "haptic driver: console or serial")
	serialPort := flag.String("serial-port", os.Getenv("SEEK_SERIAL_PORT"), "serial port for the motor controller")
	target := flag.String("target", "cup", "COCO class name to guide toward")
	singleClass := flag.Bool("single-class", false, "oracle is single-class: no class filter, 0.6 threshold")
	fastRepeat := flag.Bool("fast-repeat", false, "use the 300ms directional repeat cadence")
	dbPath := flag.String("db", "", "SQLite event log path (empty disables)")
	dashPort := flag.String("dash", config.DashboardPort(), "dashboard port")
	flag.Parse()

	log.Init(config.LogLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutting down")
		cancel()
	}()

	// Haptic driver
	var driver haptic.Driver
	switch *driverName {
	case "serial":
		port := *serialPort
		if port == "" {
			port = config.SerialPortRequired()
		}
		d, err := haptic.OpenSerial(port, config.DefaultSerialBaud)
		if err != nil {
			log.Error("open haptic driver", "error", err)
			os.Exit(1)
		}
		driver = d
	case "console":
		driver = haptic.ConsoleDriver{}
	default:
		log.Error("unknown driver", "driver", *driverName)
		os.Exit(1)
	}
	defer driver.Close()

	// Guidance configuration
	var cfg guidance.Config
	if *singleClass {
		cfg = guidance.SingleClassConfig()
	} else {
		cfg = guidance.DefaultConfig()
		if id := vision.ClassID(*target); id >= 0 {
			cfg.TargetClass = id
		} else {
			log.Error("unknown target class", "target", *target)
			os.Exit(1)
		}
	}

	schedCfg := haptic.DefaultConfig()
	if *fastRepeat {
		schedCfg = haptic.FastRepeatConfig()
	}
	sched := haptic.NewScheduler(schedCfg, driver)

	// Detection oracle
	var oracle guidance.Oracle
	if url := config.FeedURL(*feedURL); url != "" {
		client := feed.NewClient(url)
		go client.Run(ctx)
		oracle = client
	} else {
		cam, err := vision.OpenCamera(*cameraID)
		if err != nil {
			log.Error("open camera", "error", err)
			os.Exit(1)
		}
		yoloCfg := vision.DefaultYOLOConfig()
		yoloCfg.ModelPath = *modelPath
		det, err := vision.NewYOLO(yoloCfg)
		if err != nil {
			cam.Close()
			log.Error("load detection model", "error", err)
			os.Exit(1)
		}
		oracle = vision.NewOracle(cam, det)
	}
	defer oracle.Close()

	sess := guidance.NewSession(cfg, oracle, sched)

	// Dashboard
	server := web.NewServer(*dashPort)
	sess.SetStateUpdater(server)
	server.StartAsync()
	defer server.Shutdown()

	// Event log
	var store *eventlog.Store
	if *dbPath != "" {
		var err error
		store, err = eventlog.Open(*dbPath)
		if err != nil {
			log.Error("open event log", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		sess.SetRecorder(store)
		server.SetEventSource(store)
	}

	// Every playback goes to the dashboard, and to the event log if set.
	sched.Observer = func(p haptic.Pattern, cmd haptic.Command) {
		server.RecordPlayback(p, cmd)
		if store != nil {
			if err := store.RecordPlayback(sess.ID(), p.String(),
				cmd.PulseCount, cmd.Intensity.String(), cmd.Kind.String(), time.Now()); err != nil {
				log.Warn("event log write failed", "error", err)
			}
		}
	}

	log.Info("seek started",
		"session", sess.ID(),
		"target", *target,
		"driver", *driverName,
		"dashboard", *dashPort)

	sess.Run(ctx)
}
