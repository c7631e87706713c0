package service

import (
	"context"
	"errors"
	"time"

	"github.com/platevision/platevision-go/internal/model"
)

var ErrNoImageData = errors.New("no image data provided")

// DetectService runs defect detection on uploaded images. No model is wired
// in yet; it returns a fixed result after a simulated processing delay.
// TODO: call the real inference backend once it is deployed.
type DetectService struct {
	delay time.Duration
}

// NewDetectService creates a DetectService with the given simulated
// processing delay.
func NewDetectService(delay time.Duration) *DetectService {
	return &DetectService{delay: delay}
}

// Detect analyses an uploaded image and returns the detected defect boxes
// together with shooting suggestions. Honors context cancellation during
// the processing delay.
func (s *DetectService) Detect(ctx context.Context, image []byte) (model.DetectResponse, error) {
	if len(image) == 0 {
		return model.DetectResponse{}, ErrNoImageData
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return model.DetectResponse{}, ctx.Err()
		}
	}

	return model.DetectResponse{
		Success: true,
		Cracks: []model.CrackBox{
			{X: 150, Y: 200, Width: 45, Height: 12, Confidence: 0.87},
			{X: 320, Y: 180, Width: 38, Height: 8, Confidence: 0.92},
		},
		Suggestions: []string{
			"shoot in bright, even lighting",
			"keep the camera perpendicular to the subject",
			"center the subject in the frame",
		},
	}, nil
}
