package controllers

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"votekiosk/internal/capture"
	"votekiosk/internal/models"
	"votekiosk/internal/providers"
	"votekiosk/internal/services"
	"votekiosk/internal/structures"
	"votekiosk/internal/voting"
	"votekiosk/internal/voting/interfaces"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type KioskController struct {
	logger   providers.Logger
	service  services.KioskServiceInterface
	cache    providers.CacheProviderInterface
	camera   interfaces.VideoSource
	parties  []models.PartyCandidate
	maxImage int64
}

type flowResponse struct {
	models.FlowView
	Error string `json:"error,omitempty"`
}

type ballotResponse struct {
	Parties []models.PartyCandidate `json:"parties"`
	View    models.FlowView         `json:"view"`
}

type beginRequest struct {
	UniqueID string `json:"uniqueId"`
	ECID     string `json:"ecId"`
}

type captureRequest struct {
	Image string `json:"image"`
}

type voteRequest struct {
	PartyID int `json:"partyId"`
}

type displayReport struct {
	Exclusive bool `json:"exclusive"`
}

func NewKioskController(conf *structures.Config, logger providers.Logger, service services.KioskServiceInterface, cache providers.CacheProviderInterface, camera interfaces.VideoSource) *KioskController {
	maxImage := conf.Capture.MaxBytes
	if maxImage <= 0 {
		maxImage = 10 << 20
	}
	return &KioskController{
		logger:   logger,
		service:  service,
		cache:    cache,
		camera:   camera,
		parties:  voting.Parties(conf),
		maxImage: maxImage,
	}
}

func (kc *KioskController) GetSession(w http.ResponseWriter, r *http.Request) {
	kc.writeView(w, http.StatusOK, kc.service.Machine().View(), nil)
}

func (kc *KioskController) StartSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload beginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	m := kc.service.Machine()
	err := m.Begin(payload.UniqueID, payload.ECID)
	kc.writeView(w, http.StatusOK, m.View(), err)
}

// Capture accepts a multipart "image" upload, a JSON data URL, or, with
// neither, a frame from the configured camera.
func (kc *KioskController) Capture(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, kc.maxImage+maxRequestBodySize)

	source, err := kc.frameSource(r)
	if err != nil {
		kc.logger.Warnf(providers.TypePost, "Unreadable capture upload: %s", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	m := kc.service.Machine()
	err = m.CaptureAndVerify(r.Context(), source)
	kc.writeView(w, http.StatusOK, m.View(), err)
}

func (kc *KioskController) GetImage(w http.ResponseWriter, r *http.Request) {
	m := kc.service.Machine()
	view := m.View()
	ref, ok := m.Image()
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	key := services.ImageCacheKey(view.SessionID)
	data, hit := kc.cache.Get(key)
	if !hit {
		var err error
		_, data, err = capture.ParseDataURL(ref)
		if err != nil {
			kc.logger.Errorf(providers.TypeGet, "Stored image of session %s is unreadable: %s", view.SessionID, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		kc.cache.Set(key, data)
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (kc *KioskController) GetBallot(w http.ResponseWriter, r *http.Request) {
	m := kc.service.Machine()
	parties, err := m.Ballot()
	if err != nil {
		kc.writeView(w, http.StatusOK, m.View(), err)
		return
	}
	writeJSON(w, http.StatusOK, ballotResponse{Parties: parties, View: m.View()})
}

func (kc *KioskController) Vote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload voteRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	m := kc.service.Machine()
	err := m.Vote(r.Context(), payload.PartyID)
	kc.writeView(w, http.StatusOK, m.View(), err)
}

func (kc *KioskController) GetParties(w http.ResponseWriter, r *http.Request) {
	kc.serveFromCacheOrCompute(w, "parties", func() (any, error) {
		return kc.parties, nil
	})
}

func (kc *KioskController) RetryDisplay(w http.ResponseWriter, r *http.Request) {
	m := kc.service.Machine()
	err := m.RetryDisplay(r.Context())
	kc.writeView(w, http.StatusOK, m.View(), err)
}

func (kc *KioskController) ReportDisplay(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload displayReport
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	kc.service.ReportDisplay(payload.Exclusive)
	w.WriteHeader(http.StatusNoContent)
}

func (kc *KioskController) frameSource(r *http.Request) (interfaces.VideoSource, error) {
	contentType := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		if err := r.ParseMultipartForm(kc.maxImage); err != nil {
			return nil, err
		}
		file, _, err := r.FormFile("image")
		if errors.Is(err, http.ErrMissingFile) {
			return kc.cameraOrEmpty(), nil
		}
		if err != nil {
			return nil, err
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, err
		}
		return capture.NewStaticSource(data), nil

	case strings.HasPrefix(contentType, "application/json"):
		var payload captureRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return nil, err
		}
		if payload.Image == "" {
			return kc.cameraOrEmpty(), nil
		}
		_, data, err := capture.ParseDataURL(payload.Image)
		if err != nil {
			return nil, err
		}
		return capture.NewStaticSource(data), nil
	}
	return kc.cameraOrEmpty(), nil
}

func (kc *KioskController) cameraOrEmpty() interfaces.VideoSource {
	if kc.camera != nil {
		return kc.camera
	}
	return capture.NewStaticSource(nil)
}

func (kc *KioskController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := kc.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	kc.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (kc *KioskController) writeView(w http.ResponseWriter, status int, view models.FlowView, err error) {
	resp := flowResponse{FlowView: view}
	if err != nil {
		status = statusFor(err)
		resp.Error = err.Error()
		if status == http.StatusInternalServerError {
			kc.logger.Errorf(providers.TypeApp, "Voting flow error: %s", err)
		}
	}
	writeJSON(w, status, resp)
}

// statusFor maps flow errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidIdentifiers),
		errors.Is(err, models.ErrUnknownParty),
		errors.Is(err, models.ErrCaptureUnavailable),
		errors.Is(err, models.ErrVerificationRejected),
		errors.Is(err, models.ErrVoteRejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrNotReady),
		errors.Is(err, models.ErrStepInFlight),
		errors.Is(err, models.ErrSubmissionInFlight),
		errors.Is(err, models.ErrAlreadyVoted),
		errors.Is(err, models.ErrClosed):
		return http.StatusConflict
	case errors.Is(err, models.ErrSessionMissing):
		return http.StatusNotFound
	case errors.Is(err, models.ErrTransport),
		errors.Is(err, models.ErrVoteTransport):
		return http.StatusBadGateway
	case errors.Is(err, models.ErrDisplayExclusivityFailed):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}
