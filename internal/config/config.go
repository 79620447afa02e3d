// Package config handles loading and validating the gpsrd daemon
// configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for the gpsrd daemon.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Vocabulary VocabularyConfig `mapstructure:"vocabulary"`
	Speech     SpeechConfig     `mapstructure:"speech"`
	Parser     ParserConfig     `mapstructure:"parser"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig holds the health check server settings.
type ServerConfig struct {
	HealthPort int `mapstructure:"health_port"`
}

// VocabularyConfig points at the arena vocabulary file.
type VocabularyConfig struct {
	Path string `mapstructure:"path"`
}

// SpeechConfig selects and configures the speech collaborators.
type SpeechConfig struct {
	Capture CaptureConfig `mapstructure:"capture"`
	Output  OutputConfig  `mapstructure:"output"`
}

// CaptureConfig configures the speech-capture collaborator.
type CaptureConfig struct {
	Backend string        `mapstructure:"backend"` // "http" or "console"
	HTTP    ASRHTTPConfig `mapstructure:"http"`
}

// ASRHTTPConfig holds the ask-and-listen speech service settings.
type ASRHTTPConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Token    string        `mapstructure:"token"`   // optional bearer token, supports "${VAR}" references
	Timeout  time.Duration `mapstructure:"timeout"` // per-capture budget on top of the service's own turn-taking timeout
}

// OutputConfig configures the speech-output collaborator.
type OutputConfig struct {
	Backend string        `mapstructure:"backend"` // "wyoming" or "console"
	Wyoming WyomingConfig `mapstructure:"wyoming"`
}

// WyomingConfig holds Piper TTS settings (Wyoming protocol) and the
// playback service that receives the synthesized WAV.
type WyomingConfig struct {
	Endpoint    string `mapstructure:"endpoint"` // Wyoming TCP endpoint (host:port)
	Voice       string `mapstructure:"voice"`    // Piper voice model name
	PlaybackURL string `mapstructure:"playback_url"`
}

// ParserConfig tunes the command matcher.
type ParserConfig struct {
	// Recovery enables the fuzzy token-recovery pass for near-miss
	// transcriptions. Pure noise is rejected either way.
	Recovery bool `mapstructure:"recovery"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Load reads the configuration from file, environment variables, and
// defaults. If configFile is non-empty it is used directly; otherwise the
// standard search order applies: ./gpsrd.yaml, ./configs/gpsrd.yaml,
// /etc/gpsrd/gpsrd.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("vocabulary.path", "configs/vocabulary.yaml")
	v.SetDefault("speech.capture.backend", "console")
	v.SetDefault("speech.capture.http.endpoint", "http://localhost:8090/listen")
	v.SetDefault("speech.capture.http.timeout", time.Minute)
	v.SetDefault("speech.output.backend", "console")
	v.SetDefault("speech.output.wyoming.endpoint", "localhost:10200")
	v.SetDefault("speech.output.wyoming.voice", "en_US-lessac-medium")
	v.SetDefault("speech.output.wyoming.playback_url", "http://localhost:8091/play")
	v.SetDefault("parser.recovery", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("gpsrd")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/gpsrd")
	}

	// Environment variables: GPSRD_SERVER_HEALTH_PORT, GPSRD_PARSER_RECOVERY, etc.
	v.SetEnvPrefix("GPSRD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional — env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Resolve env var references in sensitive fields (e.g., "${ASR_TOKEN}")
	cfg.Speech.Capture.HTTP.Token = resolveEnvRef(cfg.Speech.Capture.HTTP.Token)

	return &cfg, nil
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		envKey := val[2 : len(val)-1]
		if envVal := os.Getenv(envKey); envVal != "" {
			return envVal
		}
	}
	return val
}

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
