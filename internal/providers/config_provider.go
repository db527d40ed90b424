package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"votekiosk/internal/structures"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("backend.verifyPath", "/verify")
	v.SetDefault("backend.votePath", "/vote")
	v.SetDefault("backend.timeout", 15*time.Second)
	v.SetDefault("dwell.verified", 10*time.Second)
	v.SetDefault("dwell.voted", 3*time.Second)
	v.SetDefault("capture.maxBytes", 10<<20)
	v.SetDefault("display.target", "voting")

	v.BindEnv("logger.level", "KIOSK_LOG_LEVEL")
	v.BindEnv("backend.baseUrl", "KIOSK_BACKEND_URL")
	v.BindEnv("session.filePath", "KIOSK_SESSION_FILE")
	v.BindEnv("capture.snapshotUrl", "KIOSK_CAMERA_URL")
	v.BindEnv("capture.faceCheck", "KIOSK_FACE_CHECK")
	v.BindEnv("cache.enabled", "KIOSK_CACHE_ENABLED")
	v.BindEnv("metrics.enabled", "KIOSK_METRICS_ENABLED")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "VoteKiosk"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
