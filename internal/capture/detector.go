package capture

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"votekiosk/internal/providers"
	"votekiosk/internal/structures"
	"votekiosk/internal/voting/interfaces"

	json "github.com/goccy/go-json"
)

type detectorResponse struct {
	Faces int `json:"faces"`
}

// HTTPDetector asks an external detector service how many faces a frame holds.
type HTTPDetector struct {
	url    string
	client *http.Client
}

type noopDetector struct{}

func (noopDetector) DetectFace(_ context.Context, _ []byte) (bool, error) { return true, nil }

func NewFaceDetector(conf *structures.Config, client *http.Client, logger providers.Logger) interfaces.FaceDetectorInterface {
	if !conf.Capture.FaceCheck {
		return noopDetector{}
	}
	logger.Infof(providers.TypeApp, "Face check enabled, detector at %s", conf.Capture.DetectorURL)
	return &HTTPDetector{url: conf.Capture.DetectorURL, client: client}
}

func (d *HTTPDetector) DetectFace(ctx context.Context, image []byte) (bool, error) {
	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile("image", "frame.jpg")
	if err != nil {
		return false, err
	}
	if _, err := part.Write(image); err != nil {
		return false, err
	}
	if err := w.Close(); err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, buf)
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := d.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return false, fmt.Errorf("detector post %s: %s", d.url, resp.Status)
	}

	var out detectorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&out); err != nil {
		return false, err
	}
	return out.Faces > 0, nil
}
