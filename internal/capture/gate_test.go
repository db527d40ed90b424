package capture

import (
	"context"
	"errors"
	"testing"
	"votekiosk/internal/models"
	"votekiosk/internal/structures"
	"votekiosk/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngFrame = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

type stubDetector struct {
	found bool
	err   error
	calls int
}

func (s *stubDetector) DetectFace(_ context.Context, _ []byte) (bool, error) {
	s.calls++
	return s.found, s.err
}

type failingSource struct{}

func (failingSource) Frame(_ context.Context) ([]byte, error) {
	return nil, errors.New("camera unplugged")
}

func newGate(detector *stubDetector, maxBytes int64) *Gate {
	conf := &structures.Config{Capture: structures.CaptureConfig{MaxBytes: maxBytes}}
	if detector == nil {
		detector = &stubDetector{found: true}
	}
	return NewCaptureGate(conf, detector, &testutil.MockLogger{}).(*Gate)
}

func TestGate_CaptureUsableFrame(t *testing.T) {
	gate := newGate(nil, 0)

	frame, err := gate.Capture(context.Background(), NewStaticSource(pngFrame))
	require.NoError(t, err)
	assert.Equal(t, "image/png", frame.MimeType)
	assert.Equal(t, pngFrame, frame.Image)
	assert.Contains(t, frame.Reference, "data:image/png;base64,")
}

func TestGate_EmptyFrame(t *testing.T) {
	gate := newGate(nil, 0)

	_, err := gate.Capture(context.Background(), NewStaticSource(nil))
	assert.ErrorIs(t, err, models.ErrCaptureUnavailable)

	_, err = gate.Capture(context.Background(), nil)
	assert.ErrorIs(t, err, models.ErrCaptureUnavailable)
}

func TestGate_SourceError(t *testing.T) {
	gate := newGate(nil, 0)

	_, err := gate.Capture(context.Background(), failingSource{})
	assert.ErrorIs(t, err, models.ErrCaptureUnavailable)
}

func TestGate_NotAnImage(t *testing.T) {
	gate := newGate(nil, 0)

	_, err := gate.Capture(context.Background(), NewStaticSource([]byte("plain text, definitely not a photo")))
	assert.ErrorIs(t, err, models.ErrCaptureUnavailable)
}

func TestGate_OversizeFrame(t *testing.T) {
	gate := newGate(nil, 16)

	_, err := gate.Capture(context.Background(), NewStaticSource(pngFrame))
	assert.ErrorIs(t, err, models.ErrCaptureUnavailable)
}

func TestGate_NoFaceDetected(t *testing.T) {
	detector := &stubDetector{found: false}
	gate := newGate(detector, 0)

	_, err := gate.Capture(context.Background(), NewStaticSource(pngFrame))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNoFaceDetected)
	assert.ErrorIs(t, err, models.ErrCaptureUnavailable)
	assert.Equal(t, 1, detector.calls)
}

func TestGate_DetectorFailure(t *testing.T) {
	gate := newGate(&stubDetector{err: errors.New("detector down")}, 0)

	_, err := gate.Capture(context.Background(), NewStaticSource(pngFrame))
	assert.ErrorIs(t, err, models.ErrCaptureUnavailable)
	assert.NotErrorIs(t, err, models.ErrNoFaceDetected)
}

func TestDataURL_RoundTrip(t *testing.T) {
	ref := DataURL("image/jpeg", []byte{0xff, 0xd8, 0xff, 0x01})

	mimeType, data, err := ParseDataURL(ref)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mimeType)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff, 0x01}, data)
}

func TestParseDataURL_Malformed(t *testing.T) {
	for _, ref := range []string{"", "image/png;base64,AAAA", "data:image/png;base64", "data:image/png,AAAA", "data:image/png;base64,@@@"} {
		_, _, err := ParseDataURL(ref)
		assert.Error(t, err, ref)
	}
}
