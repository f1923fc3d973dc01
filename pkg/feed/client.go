// Package feed subscribes to a remote inference service that publishes
// one detection result per processed frame over a websocket.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/seeksense/go-seeksense/internal/log"
	"github.com/seeksense/go-seeksense/pkg/detect"
)

// Sentinel errors.
var (
	// ErrClosed is returned when using a closed client.
	ErrClosed = errors.New("feed: client closed")
)

const (
	// handshakeTimeout bounds the initial websocket dial.
	handshakeTimeout = 5 * time.Second

	// maxBackoff caps the reconnect delay.
	maxBackoff = 10 * time.Second

	// resultBuffer holds undelivered frames; older frames are dropped
	// because stale detections are worse than none at 10 Hz.
	resultBuffer = 4
)

// wireResult is the JSON shape published by the inference service.
// class_id may be absent for single-class models and is not guaranteed
// to be integral.
type wireResult struct {
	FrameID    uint64 `json:"frame_id"`
	Candidates []struct {
		ClassID *float64   `json:"class_id"`
		Score   float64    `json:"score"`
		Box     [4]float64 `json:"box"` // y_min, x_min, y_max, x_max
	} `json:"candidates"`
}

// Client is a reconnecting websocket subscriber implementing the
// guidance oracle contract.
type Client struct {
	url string

	results chan []detect.Detection

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
	done   chan struct{}
}

// NewClient creates a client for the given ws:// or wss:// URL.
// The connection is established by Run.
func NewClient(url string) *Client {
	return &Client{
		url:     url,
		results: make(chan []detect.Detection, resultBuffer),
		done:    make(chan struct{}),
	}
}

// Run connects and keeps reading results until ctx is cancelled or the
// client is closed, reconnecting with backoff on failure. Run blocks;
// call it in a goroutine.
func (c *Client) Run(ctx context.Context) {
	backoff := time.Second
	for {
		if err := c.connect(); err != nil {
			log.Warn("feed connect failed", "url", c.url, "error", err, "retry_in", backoff)
			select {
			case <-ctx.Done():
				return
			case <-c.done:
				return
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, maxBackoff)
			continue
		}
		backoff = time.Second

		if err := c.readLoop(ctx); err != nil {
			if ctx.Err() != nil || c.isClosed() {
				return
			}
			log.Warn("feed connection lost", "url", c.url, "error", err)
		}
	}
}

func (c *Client) connect() error {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.Dial(c.url, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return ErrClosed
	}
	c.conn = conn
	c.mu.Unlock()

	log.Info("feed connected", "url", c.url)
	return nil
}

func (c *Client) readLoop(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return err
		}

		dets, err := parseResult(data)
		if err != nil {
			// Shape mismatch is diagnostic only; the frame counts
			// as no detection.
			log.Debug("feed frame malformed", "error", err)
			dets = nil
		}
		c.deliver(dets)
	}
}

// deliver pushes a frame result, dropping the oldest buffered frame if
// the consumer is behind.
func (c *Client) deliver(dets []detect.Detection) {
	for {
		select {
		case c.results <- dets:
			return
		default:
			select {
			case <-c.results:
			default:
			}
		}
	}
}

// Next blocks until the next frame result or ctx cancellation.
func (c *Client) Next(ctx context.Context) ([]detect.Detection, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, ErrClosed
	case dets := <-c.results:
		return dets, nil
	}
}

// Close tears down the connection and unblocks Next and Run.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	close(c.done)
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// parseResult decodes one published frame. Fractional class ids are
// rounded; a missing class id maps to -1 (single-class oracle).
func parseResult(data []byte) ([]detect.Detection, error) {
	var res wireResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}

	dets := make([]detect.Detection, 0, len(res.Candidates))
	for _, c := range res.Candidates {
		classID := -1
		if c.ClassID != nil {
			classID = int(math.Round(*c.ClassID))
		}
		dets = append(dets, detect.Detection{
			ClassID: classID,
			Score:   c.Score,
			Box: detect.Box{
				YMin: c.Box[0],
				XMin: c.Box[1],
				YMax: c.Box[2],
				XMax: c.Box[3],
			},
		})
	}
	return dets, nil
}
