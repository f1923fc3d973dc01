// Package vision provides a local object-detection oracle backed by an
// ONNX model running through OpenCV's DNN module.
package vision

import (
	"context"

	"github.com/seeksense/go-seeksense/pkg/detect"
)

// Detector finds objects in a JPEG frame.
type Detector interface {
	Detect(jpeg []byte) ([]detect.Detection, error)
	Close() error
}

// FrameSource captures frames from a camera.
type FrameSource interface {
	CaptureJPEG() ([]byte, error)
	Close() error
}

// Oracle combines a frame source and a detector into a guidance oracle:
// each Next captures one frame and runs inference on it.
type Oracle struct {
	src FrameSource
	det Detector
}

// NewOracle creates an oracle over the given source and detector.
func NewOracle(src FrameSource, det Detector) *Oracle {
	return &Oracle{src: src, det: det}
}

// Next captures and classifies one frame.
func (o *Oracle) Next(ctx context.Context) ([]detect.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	frame, err := o.src.CaptureJPEG()
	if err != nil {
		return nil, err
	}
	return o.det.Detect(frame)
}

// Close releases the detector and the frame source.
func (o *Oracle) Close() error {
	err := o.det.Close()
	if cerr := o.src.Close(); err == nil {
		err = cerr
	}
	return err
}
