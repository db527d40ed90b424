package interfaces

import (
	"context"
	"votekiosk/internal/models"
)

// VideoSource yields one still image on demand.
type VideoSource interface {
	Frame(ctx context.Context) ([]byte, error)
}

type FaceDetectorInterface interface {
	DetectFace(ctx context.Context, image []byte) (bool, error)
}

type CaptureGateInterface interface {
	Capture(ctx context.Context, source VideoSource) (models.Frame, error)
}
