package providers

import (
	"net"
	"net/http"
	"time"
	"votekiosk/internal/structures"
)

// NewHTTPClientProvider builds the client shared by the backend, camera and detector adapters.
func NewHTTPClientProvider(conf *structures.Config) *http.Client {
	return &http.Client{
		Timeout: conf.Backend.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        8,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     30 * time.Second,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
	}
}
