package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/seeksense/go-seeksense/pkg/hub"
)

// handleStatus returns the latest session snapshot.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return c.JSON(s.state)
}

// handlePlaybacks returns the recent playback buffer.
func (s *Server) handlePlaybacks(c *fiber.Ctx) error {
	s.playbacksMu.RLock()
	defer s.playbacksMu.RUnlock()
	return c.JSON(s.playbacks)
}

// handleEvents returns recorded transitions for the current session.
func (s *Server) handleEvents(c *fiber.Ctx) error {
	if s.events == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{
			"error": "event log not configured",
		})
	}

	s.stateMu.RLock()
	sessionID := s.state.SessionID
	s.stateMu.RUnlock()

	limit := c.QueryInt("limit", 50)
	transitions, err := s.events.RecentTransitions(sessionID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(transitions)
}

// handleStatusWS streams session snapshots.
func (s *Server) handleStatusWS(c *websocket.Conn) {
	// Send the current snapshot before joining the broadcast.
	s.stateMu.RLock()
	c.WriteJSON(s.state)
	s.stateMu.RUnlock()

	client := hub.NewClient(s.statusHub, c)
	client.Run()
}

// handlePlaybacksWS streams playback starts.
func (s *Server) handlePlaybacksWS(c *websocket.Conn) {
	client := hub.NewClient(s.playbackHub, c)
	client.Run()
}
