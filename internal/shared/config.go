package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	YouTube  YouTubeConfig  `toml:"youtube"`
	Download DownloadConfig `toml:"download"`
	Engine   EngineConfig   `toml:"engine"`
	Database DatabaseConfig `toml:"database"`
}

// YouTubeConfig contains YouTube Data API credentials.
//
// APIKey is sufficient for public playlists. OAuthToken, when set, is used as
// a bearer token instead and grants access to the caller's private playlists.
type YouTubeConfig struct {
	APIKey     string `toml:"api_key"`
	OAuthToken string `toml:"oauth_token"`
	BaseURL    string `toml:"base_url"`
}

// DownloadConfig controls what gets downloaded and where.
type DownloadConfig struct {
	Directory          string  `toml:"directory"`
	Kind               string  `toml:"kind"`
	AudioFormat        string  `toml:"audio_format"`
	VideoFormat        string  `toml:"video_format"`
	MaxDurationSeconds float64 `toml:"max_duration_seconds"`
	Thumbnails         bool    `toml:"thumbnails"`
	ConvertThumbnails  bool    `toml:"convert_thumbnails"`
	MaxThumbnailSize   int     `toml:"max_thumbnail_size"`
}

// EngineConfig tunes the sync pipeline.
type EngineConfig struct {
	Concurrency int     `toml:"concurrency"`
	RateLimit   float64 `toml:"rate_limit"`
	ItemCap     int     `toml:"item_cap"`
}

// DatabaseConfig contains download-history database settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
