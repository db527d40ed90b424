package providers

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	"votekiosk/internal/structures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
webServer:
  host: 127.0.0.1
  port: 8088
logger:
  level: debug
  mode: 0644
  dir: /tmp
backend:
  baseUrl: http://localhost:5000
session:
  filePath: /tmp/kiosk/session.json
  compress: true
capture:
  faceCheck: true
  detectorUrl: http://localhost:7000/detect
display:
  enterCommand: ["swaymsg", "fullscreen", "enable"]
  watchInterval: 2s
parties:
  - id: 1
    name: Liberal Centric Party
    logo: https://example.org/lcp.png
  - id: 3
    name: National Liberal Party
    logo: https://example.org/nlp.png
cache:
  enabled: true
  size: 4
metrics:
  enabled: true
`

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "kiosk.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestNewConfigProvider_LoadsAndDefaults(t *testing.T) {
	path := writeConfig(t, testConfigYAML)

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path, DebugMode: true})
	require.NoError(t, err)

	assert.Equal(t, "VoteKiosk", conf.AppName)
	assert.True(t, conf.Debug)
	assert.Equal(t, path, conf.Path)
	assert.Equal(t, 8088, conf.WebServer.Port)
	assert.Equal(t, "http://localhost:5000", conf.Backend.BaseURL)
	assert.Equal(t, "/verify", conf.Backend.VerifyPath)
	assert.Equal(t, "/vote", conf.Backend.VotePath)
	assert.Equal(t, 10*time.Second, conf.Dwell.Verified)
	assert.Equal(t, 3*time.Second, conf.Dwell.Voted)
	assert.True(t, conf.Session.Compress)
	assert.True(t, conf.Capture.FaceCheck)
	assert.Equal(t, []string{"swaymsg", "fullscreen", "enable"}, conf.Display.EnterCommand)
	assert.Equal(t, 2*time.Second, conf.Display.WatchInterval)
	require.Len(t, conf.Parties, 2)
	assert.Equal(t, 3, conf.Parties[1].ID)
	assert.Equal(t, "https://example.org/nlp.png", conf.Parties[1].Logo)
}

func TestNewConfigProvider_EnvOverride(t *testing.T) {
	path := writeConfig(t, testConfigYAML)
	t.Setenv("KIOSK_BACKEND_URL", "http://backend.local:9000")

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, "http://backend.local:9000", conf.Backend.BaseURL)
}

func TestNewConfigProvider_MissingFile(t *testing.T) {
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: filepath.Join(t.TempDir(), "absent.yml")})
	assert.Error(t, err)
}

func TestNewConfigProvider_InvalidConfig(t *testing.T) {
	path := writeConfig(t, "webServer:\n  host: 127.0.0.1\n  port: 8088\n")
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	assert.Error(t, err)
}
