package capture

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"votekiosk/internal/structures"
	"votekiosk/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotSource_Frame(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngFrame)
	}))
	defer srv.Close()

	src := NewSnapshotSource(srv.URL, srv.Client(), 0)
	data, err := src.Frame(context.Background())
	require.NoError(t, err)
	assert.Equal(t, pngFrame, data)
}

func TestSnapshotSource_CameraError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewSnapshotSource(srv.URL, srv.Client(), 0).Frame(context.Background())
	assert.Error(t, err)
}

func TestSnapshotSource_LimitsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 1024))
	}))
	defer srv.Close()

	data, err := NewSnapshotSource(srv.URL, srv.Client(), 100).Frame(context.Background())
	require.NoError(t, err)
	assert.Len(t, data, 101)
}

func TestSnapshotSource_FeedsGate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(pngFrame)
	}))
	defer srv.Close()

	gate := newGate(nil, 1<<20)
	frame, err := gate.Capture(context.Background(), NewSnapshotSource(srv.URL, srv.Client(), 1<<20))
	require.NoError(t, err)
	assert.Equal(t, "image/png", frame.MimeType)
}

func TestNewFaceDetector_DisabledAcceptsEverything(t *testing.T) {
	conf := &structures.Config{}
	d := NewFaceDetector(conf, http.DefaultClient, &testutil.MockLogger{})

	found, err := d.DetectFace(context.Background(), []byte("anything"))
	require.NoError(t, err)
	assert.True(t, found)
}

func TestHTTPDetector_DetectFace(t *testing.T) {
	faces := 1
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, _, err := r.FormFile("image")
		require.NoError(t, err)
		file.Close()
		w.Header().Set("Content-Type", "application/json")
		if faces > 0 {
			_, _ = w.Write([]byte(`{"faces":1}`))
		} else {
			_, _ = w.Write([]byte(`{"faces":0}`))
		}
	}))
	defer srv.Close()

	conf := &structures.Config{Capture: structures.CaptureConfig{FaceCheck: true, DetectorURL: srv.URL}}
	d := NewFaceDetector(conf, srv.Client(), &testutil.MockLogger{})

	found, err := d.DetectFace(context.Background(), pngFrame)
	require.NoError(t, err)
	assert.True(t, found)

	faces = 0
	found, err = d.DetectFace(context.Background(), pngFrame)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHTTPDetector_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	conf := &structures.Config{Capture: structures.CaptureConfig{FaceCheck: true, DetectorURL: srv.URL}}
	d := NewFaceDetector(conf, srv.Client(), &testutil.MockLogger{})

	_, err := d.DetectFace(context.Background(), pngFrame)
	assert.Error(t, err)
}

func TestNewCameraSource(t *testing.T) {
	assert.Nil(t, NewCameraSource(&structures.Config{}, http.DefaultClient))

	conf := &structures.Config{Capture: structures.CaptureConfig{SnapshotURL: "http://camera.local/snapshot.jpg"}}
	assert.IsType(t, &SnapshotSource{}, NewCameraSource(conf, http.DefaultClient))
}
