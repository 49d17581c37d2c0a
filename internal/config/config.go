package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	envPrefix = "postul"

	// ProductionBaseURL is the fixed production endpoint; development builds
	// default to a local loopback and can be pointed at emulator/device
	// addresses via POSTUL_API_BASE_URL.
	ProductionBaseURL  = "https://api.postul.app"
	DevelopmentBaseURL = "http://localhost:8000"
)

// Config stores runtime configuration for the capture client.
type Config struct {
	Env      string `envconfig:"env" default:"development"`
	LogLevel string `envconfig:"log_level" default:"info"`

	API      APIConfig
	Deepgram DeepgramConfig
	Audio    AudioConfig
	Rules    RulesConfig
	Session  SessionConfig
}

// APIConfig configures the idea-analysis service client.
type APIConfig struct {
	BaseURL        string        `envconfig:"api_base_url"`
	Token          string        `envconfig:"api_token"`
	Timeout        time.Duration `envconfig:"api_timeout" default:"15s"`
	AnalyzeTimeout time.Duration `envconfig:"api_analyze_timeout" default:"90s"`
}

// DeepgramConfig configures the streaming speech-recognition provider.
type DeepgramConfig struct {
	APIKey      string `envconfig:"deepgram_api_key"`
	APIBaseURL  string `envconfig:"deepgram_api_base" default:"https://api.deepgram.com/v1"`
	Model       string `envconfig:"deepgram_model" default:"nova-2"`
	Language    string `envconfig:"deepgram_language"`
	SmartFormat bool   `envconfig:"deepgram_smart_format" default:"true"`
}

// AudioConfig configures raw microphone capture.
type AudioConfig struct {
	RecorderCommand string `envconfig:"ffmpeg_command" default:"ffmpeg"`
	InputFormat     string `envconfig:"audio_input_format" default:"pulse"`
	InputDevice     string `envconfig:"audio_input_device" default:"default"`
	SampleRate      int    `envconfig:"sample_rate" default:"16000"`
	Channels        int    `envconfig:"channels" default:"1"`
}

// RulesConfig locates the optional transcript-cleanup rules file.
type RulesConfig struct {
	Path      string `envconfig:"rules_file"`
	PassLimit int    `envconfig:"rules_pass_limit" default:"30"`
}

// SessionConfig tunes the capture session plumbing.
type SessionConfig struct {
	ChunkSize        int           `envconfig:"audio_chunk_size" default:"4096"`
	StreamingGraceMS int           `envconfig:"streaming_grace_ms" default:"1000"`
	StreamingGrace   time.Duration `ignored:"true"`
}

// Load resolves configuration from POSTUL_* environment variables and
// applies defaults the same way for every front-end.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process environment: %w", err)
	}

	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	switch cfg.Env {
	case "", "dev", "development":
		cfg.Env = "development"
	case "prod", "production":
		cfg.Env = "production"
	default:
		return Config{}, fmt.Errorf("unknown POSTUL_ENV %q", cfg.Env)
	}

	if strings.TrimSpace(cfg.API.BaseURL) == "" {
		cfg.API.BaseURL = DevelopmentBaseURL
		if cfg.Env == "production" {
			cfg.API.BaseURL = ProductionBaseURL
		}
	}
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")

	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = 15 * time.Second
	}
	if cfg.API.AnalyzeTimeout <= 0 {
		cfg.API.AnalyzeTimeout = 90 * time.Second
	}
	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = 16000
	}
	if cfg.Audio.Channels <= 0 {
		cfg.Audio.Channels = 1
	}
	if cfg.Rules.PassLimit <= 0 {
		cfg.Rules.PassLimit = 30
	}
	if cfg.Session.ChunkSize < 256 {
		cfg.Session.ChunkSize = 4096
	}
	if cfg.Session.StreamingGraceMS < 0 {
		cfg.Session.StreamingGraceMS = 1000
	}
	cfg.Session.StreamingGrace = time.Duration(cfg.Session.StreamingGraceMS) * time.Millisecond

	return cfg, nil
}
