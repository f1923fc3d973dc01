package vision

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"github.com/seeksense/go-seeksense/pkg/detect"
)

// Config holds YOLO detector configuration.
type Config struct {
	ModelPath        string
	ConfidenceThresh float32
	NMSThresh        float32
	InputWidth       int
	InputHeight      int
}

// DefaultYOLOConfig returns production defaults for YOLOv8n.
func DefaultYOLOConfig() Config {
	return Config{
		ModelPath:        "models/yolov8n.onnx",
		ConfidenceThresh: 0.25, // keep weak candidates, selection thresholds later
		NMSThresh:        0.45,
		InputWidth:       640,
		InputHeight:      640,
	}
}

// YOLODetector runs a YOLOv8-style ONNX model for object detection.
type YOLODetector struct {
	net       gocv.Net
	cfg       Config
	mu        sync.Mutex
	inputSize image.Point
}

// NewYOLO loads the ONNX model and prepares the network.
func NewYOLO(cfg Config) (*YOLODetector, error) {
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", cfg.ModelPath)
	}

	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load model from %s", cfg.ModelPath)
	}

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &YOLODetector{
		net:       net,
		cfg:       cfg,
		inputSize: image.Pt(cfg.InputWidth, cfg.InputHeight),
	}, nil
}

// Detect finds objects in the JPEG image. Boxes are returned normalized
// to the frame so downstream classification is resolution independent.
func (d *YOLODetector) Detect(jpeg []byte) ([]detect.Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	img, err := gocv.IMDecode(jpeg, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	defer img.Close()

	if img.Empty() {
		return nil, fmt.Errorf("empty image")
	}

	imgW := float32(img.Cols())
	imgH := float32(img.Rows())

	blob := gocv.BlobFromImage(img, 1.0/255.0, d.inputSize, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	defer output.Close()

	return d.parseOutput(output, imgW, imgH), nil
}

// parseOutput decodes the YOLOv8 output tensor ([1, 4+classes, boxes])
// and applies non-maximum suppression.
func (d *YOLODetector) parseOutput(output gocv.Mat, imgW, imgH float32) []detect.Detection {
	rows := output.Cols() // candidate boxes
	cols := output.Rows() // 4 bbox values + class scores

	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil
	}

	var boxes []image.Rectangle
	var confidences []float32
	var classIDs []int

	for i := 0; i < rows; i++ {
		maxScore := float32(0)
		maxClassID := 0
		for c := 4; c < cols; c++ {
			if score := data[c*rows+i]; score > maxScore {
				maxScore = score
				maxClassID = c - 4
			}
		}
		if maxScore < d.cfg.ConfidenceThresh {
			continue
		}

		// Box is center x, center y, width, height in model input space.
		cx := data[0*rows+i]
		cy := data[1*rows+i]
		w := data[2*rows+i]
		h := data[3*rows+i]

		x1 := int((cx - w/2) * imgW / float32(d.cfg.InputWidth))
		y1 := int((cy - h/2) * imgH / float32(d.cfg.InputHeight))
		x2 := int((cx + w/2) * imgW / float32(d.cfg.InputWidth))
		y2 := int((cy + h/2) * imgH / float32(d.cfg.InputHeight))

		boxes = append(boxes, image.Rect(x1, y1, x2, y2))
		confidences = append(confidences, maxScore)
		classIDs = append(classIDs, maxClassID)
	}

	if len(boxes) == 0 {
		return nil
	}

	indices := gocv.NMSBoxes(boxes, confidences, d.cfg.ConfidenceThresh, d.cfg.NMSThresh)

	var dets []detect.Detection
	for _, idx := range indices {
		box := boxes[idx]
		dets = append(dets, detect.Detection{
			ClassID: classIDs[idx],
			Score:   float64(confidences[idx]),
			Box: detect.Box{
				YMin: float64(box.Min.Y) / float64(imgH),
				XMin: float64(box.Min.X) / float64(imgW),
				YMax: float64(box.Max.Y) / float64(imgH),
				XMax: float64(box.Max.X) / float64(imgW),
			},
		})
	}
	return dets
}

// Close releases the network.
func (d *YOLODetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}

var _ Detector = (*YOLODetector)(nil)
