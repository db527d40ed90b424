package capture

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"votekiosk/internal/structures"
	"votekiosk/internal/voting/interfaces"
)

// StaticSource yields bytes uploaded by the kiosk front-end.
type StaticSource struct {
	data []byte
}

func NewStaticSource(data []byte) interfaces.VideoSource {
	return &StaticSource{data: data}
}

func (s *StaticSource) Frame(_ context.Context) ([]byte, error) {
	return s.data, nil
}

// SnapshotSource grabs a still from an IP camera snapshot endpoint.
type SnapshotSource struct {
	url      string
	client   *http.Client
	maxBytes int64
}

func NewSnapshotSource(url string, client *http.Client, maxBytes int64) interfaces.VideoSource {
	return &SnapshotSource{url: url, client: client, maxBytes: maxBytes}
}

func (s *SnapshotSource) Frame(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("camera get %s: %s", s.url, resp.Status)
	}

	var body io.Reader = resp.Body
	if s.maxBytes > 0 {
		// one extra byte lets the gate notice oversize frames
		body = io.LimitReader(resp.Body, s.maxBytes+1)
	}
	return io.ReadAll(body)
}

// NewCameraSource returns the configured IP camera, or nil when the front-end
// uploads frames itself.
func NewCameraSource(conf *structures.Config, client *http.Client) interfaces.VideoSource {
	if conf.Capture.SnapshotURL == "" {
		return nil
	}
	return NewSnapshotSource(conf.Capture.SnapshotURL, client, conf.Capture.MaxBytes)
}
