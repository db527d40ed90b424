package capture

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"votekiosk/internal/models"
	"votekiosk/internal/providers"
	"votekiosk/internal/structures"
	"votekiosk/internal/voting/interfaces"
)

// Gate turns one frame of a video source into a usable voter image.
type Gate struct {
	detector interfaces.FaceDetectorInterface
	maxBytes int64
	logger   providers.Logger
}

func NewCaptureGate(conf *structures.Config, detector interfaces.FaceDetectorInterface, logger providers.Logger) interfaces.CaptureGateInterface {
	return &Gate{
		detector: detector,
		maxBytes: conf.Capture.MaxBytes,
		logger:   logger,
	}
}

func (g *Gate) Capture(ctx context.Context, source interfaces.VideoSource) (models.Frame, error) {
	if source == nil {
		return models.Frame{}, fmt.Errorf("%w: no video source", models.ErrCaptureUnavailable)
	}

	image, err := source.Frame(ctx)
	if err != nil {
		g.logger.Warnf(providers.TypeSession, "Frame grab failed: %s", err)
		return models.Frame{}, fmt.Errorf("%w: %s", models.ErrCaptureUnavailable, err)
	}
	if len(image) == 0 {
		return models.Frame{}, fmt.Errorf("%w: empty frame", models.ErrCaptureUnavailable)
	}
	if g.maxBytes > 0 && int64(len(image)) > g.maxBytes {
		return models.Frame{}, fmt.Errorf("%w: frame of %d bytes exceeds limit", models.ErrCaptureUnavailable, len(image))
	}

	mimeType := http.DetectContentType(image)
	if !strings.HasPrefix(mimeType, "image/") {
		return models.Frame{}, fmt.Errorf("%w: not an image (%s)", models.ErrCaptureUnavailable, mimeType)
	}

	found, err := g.detector.DetectFace(ctx, image)
	if err != nil {
		g.logger.Errorf(providers.TypeSession, "Face detector failed: %s", err)
		return models.Frame{}, fmt.Errorf("%w: face detector: %s", models.ErrCaptureUnavailable, err)
	}
	if !found {
		return models.Frame{}, models.ErrNoFaceDetected
	}

	return models.Frame{
		Image:     image,
		MimeType:  mimeType,
		Reference: DataURL(mimeType, image),
	}, nil
}

// DataURL renders image bytes as a display-ready data: reference.
func DataURL(mimeType string, image []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)
}

// ParseDataURL is the inverse of DataURL.
func ParseDataURL(ref string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data url")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data url")
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("data url is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, err
	}
	return mimeType, data, nil
}
