// Package web provides a real-time dashboard for a guidance session.
package web

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/seeksense/go-seeksense/internal/log"
	"github.com/seeksense/go-seeksense/pkg/eventlog"
	"github.com/seeksense/go-seeksense/pkg/guidance"
	"github.com/seeksense/go-seeksense/pkg/haptic"
	"github.com/seeksense/go-seeksense/pkg/hub"
)

// EventSource answers the dashboard's history queries.
// *eventlog.Store satisfies it.
type EventSource interface {
	RecentTransitions(sessionID string, limit int) ([]eventlog.Transition, error)
}

// PlaybackEntry is one playback shown on the live dashboard.
type PlaybackEntry struct {
	Time      string `json:"time"`
	Pattern   string `json:"pattern"`
	Pulses    int    `json:"pulses"`
	Intensity string `json:"intensity"`
	Kind      string `json:"kind"`
}

// Server is the dashboard server. It implements guidance.StateUpdater
// and exposes RecordPlayback as a scheduler observer target.
type Server struct {
	app  *fiber.App
	port string

	stateMu sync.RWMutex
	state   guidance.State

	playbacksMu sync.RWMutex
	playbacks   []PlaybackEntry

	statusHub   *hub.Hub
	playbackHub *hub.Hub

	events EventSource // optional
}

// NewServer creates the dashboard server.
func NewServer(port string) *Server {
	s := &Server{
		port:        port,
		playbacks:   make([]PlaybackEntry, 0, 200),
		statusHub:   hub.New("status"),
		playbackHub: hub.New("playbacks"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "SeekSense Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/playbacks", s.handlePlaybacks)
	api.Get("/events", s.handleEvents)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/status", websocket.New(s.handleStatusWS))
	app.Get("/ws/playbacks", websocket.New(s.handlePlaybacksWS))

	s.app = app
	return s
}

// SetEventSource wires the event-log history queries.
func (s *Server) SetEventSource(events EventSource) {
	s.events = events
}

// Start starts the dashboard. Blocks.
func (s *Server) Start() error {
	log.Info("dashboard listening", "addr", "http://localhost:"+s.port)

	go s.statusHub.Run()
	go s.playbackHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the dashboard in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("dashboard server error", "error", err)
		}
	}()
}

// UpdateGuidance implements guidance.StateUpdater: store the snapshot
// and broadcast it to status subscribers.
func (s *Server) UpdateGuidance(st guidance.State) {
	s.stateMu.Lock()
	s.state = st
	s.stateMu.Unlock()

	s.statusHub.BroadcastJSON(st)
}

// RecordPlayback is wired as the scheduler's playback observer.
func (s *Server) RecordPlayback(p haptic.Pattern, cmd haptic.Command) {
	entry := PlaybackEntry{
		Time:      time.Now().Format("15:04:05.000"),
		Pattern:   p.String(),
		Pulses:    cmd.PulseCount,
		Intensity: cmd.Intensity.String(),
		Kind:      cmd.Kind.String(),
	}

	s.playbacksMu.Lock()
	s.playbacks = append(s.playbacks, entry)
	if len(s.playbacks) > 200 {
		s.playbacks = s.playbacks[1:]
	}
	s.playbacksMu.Unlock()

	s.playbackHub.BroadcastJSON(entry)
}

// Shutdown gracefully stops the dashboard.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
