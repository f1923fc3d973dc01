package vision

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Camera captures JPEG frames from a local video device.
type Camera struct {
	mu  sync.Mutex
	cap *gocv.VideoCapture
	img gocv.Mat
}

// OpenCamera opens the video device with the given index.
func OpenCamera(deviceID int) (*Camera, error) {
	cap, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", deviceID, err)
	}
	return &Camera{cap: cap, img: gocv.NewMat()}, nil
}

// CaptureJPEG grabs one frame and encodes it as JPEG.
func (c *Camera) CaptureJPEG() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ok := c.cap.Read(&c.img); !ok || c.img.Empty() {
		return nil, fmt.Errorf("camera read failed")
	}
	buf, err := gocv.IMEncode(".jpg", c.img)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}

// Close releases the device.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.img.Close()
	return c.cap.Close()
}

var _ FrameSource = (*Camera)(nil)
