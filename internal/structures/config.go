package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|min:1|max:65535"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

// BackendConfig points at the external verification and voting service.
type BackendConfig struct {
	BaseURL    string        `yaml:"baseUrl" mapstructure:"baseUrl" validate:"required|fullUrl"`
	VerifyPath string        `yaml:"verifyPath" mapstructure:"verifyPath" validate:"required"`
	VotePath   string        `yaml:"votePath" mapstructure:"votePath" validate:"required"`
	Timeout    time.Duration `yaml:"timeout" validate:"required|min:1"`
}

type SessionConfig struct {
	FilePath string `yaml:"filePath" mapstructure:"filePath" validate:"required|unixPath"`
	Compress bool   `yaml:"compress"`
}

type CaptureConfig struct {
	SnapshotURL string `yaml:"snapshotUrl" mapstructure:"snapshotUrl"`
	FaceCheck   bool   `yaml:"faceCheck" mapstructure:"faceCheck"`
	DetectorURL string `yaml:"detectorUrl" mapstructure:"detectorUrl"`
	MaxBytes    int64  `yaml:"maxBytes" mapstructure:"maxBytes"`
}

// DwellConfig holds the automatic transition delays of the voting flow.
type DwellConfig struct {
	Verified time.Duration `yaml:"verified" validate:"required|min:1"`
	Voted    time.Duration `yaml:"voted" validate:"required|min:1"`
}

type DisplayConfig struct {
	Target        string        `yaml:"target"`
	EnterCommand  []string      `yaml:"enterCommand" mapstructure:"enterCommand"`
	ExitCommand   []string      `yaml:"exitCommand" mapstructure:"exitCommand"`
	ProbeCommand  []string      `yaml:"probeCommand" mapstructure:"probeCommand"`
	WatchInterval time.Duration `yaml:"watchInterval" mapstructure:"watchInterval"`
}

type PartyConfig struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
	Logo string `yaml:"logo"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server        `yaml:"webServer" mapstructure:"webServer"`
	Logger    LoggerConfig  `yaml:"logger"`
	Backend   BackendConfig `yaml:"backend"`
	Session   SessionConfig `yaml:"session"`
	Capture   CaptureConfig `yaml:"capture"`
	Dwell     DwellConfig   `yaml:"dwell"`
	Display   DisplayConfig `yaml:"display"`
	Parties   []PartyConfig `yaml:"parties"`
	Cache     CacheConfig   `yaml:"cache"`
	Metrics   MetricsConfig `yaml:"metrics"`
}
