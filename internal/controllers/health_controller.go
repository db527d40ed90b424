package controllers

import (
	"fmt"
	"net/http"
	"time"
	"votekiosk/internal/models"
	"votekiosk/internal/services"

	json "github.com/goccy/go-json"
)

type HealthController struct {
	service   services.KioskServiceInterface
	startTime time.Time
}

type healthResponse struct {
	Status          string           `json:"status"`
	Uptime          string           `json:"uptime"`
	UptimeSeconds   float64          `json:"uptime_seconds"`
	State           models.FlowState `json:"state"`
	SessionResident bool             `json:"session_resident"`
	Exclusive       bool             `json:"exclusive_display"`
	VotersServed    uint64           `json:"voters_served"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:          "ok",
		Uptime:          formatDuration(uptime),
		UptimeSeconds:   uptime.Seconds(),
		State:           hc.service.Machine().View().State,
		SessionResident: hc.service.Resident(),
		Exclusive:       hc.service.Exclusive(),
		VotersServed:    hc.service.Served(),
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(service services.KioskServiceInterface) *HealthController {
	return &HealthController{
		service:   service,
		startTime: time.Now(),
	}
}
