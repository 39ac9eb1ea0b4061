package domain

import (
	"path/filepath"
	"time"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Download  DownloadConfig  `mapstructure:"download"`
	Extractor ExtractorConfig `mapstructure:"extractor"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host        string   `mapstructure:"host"`
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// DownloadConfig contains download-related configuration
type DownloadConfig struct {
	Dir                string `mapstructure:"dir"`
	LogsDir            string `mapstructure:"logs_dir"` // defaults to <dir>/logs
	OutputTemplate     string `mapstructure:"output_template"`
	PreferredContainer string `mapstructure:"preferred_container"`
}

// ExtractorConfig contains yt-dlp specific configuration
type ExtractorConfig struct {
	Binary             string        `mapstructure:"binary"`
	PlayerClients      []string      `mapstructure:"player_clients"`
	NoCheckCertificate bool          `mapstructure:"no_check_certificate"`
	Timeout            time.Duration `mapstructure:"timeout"`        // 0 = no limit
	InfoCacheTTL       time.Duration `mapstructure:"info_cache_ttl"` // 0 = cache disabled
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// OutputPath returns the full yt-dlp output template inside the downloads directory
func (c DownloadConfig) OutputPath() string {
	return filepath.Join(c.Dir, c.OutputTemplate)
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        5001,
			CORSOrigins: []string{"*"},
		},
		Download: DownloadConfig{
			Dir:                "./downloads",
			OutputTemplate:     "%(title)s [%(id)s].%(ext)s",
			PreferredContainer: "mp4",
		},
		Extractor: ExtractorConfig{
			Binary:             "yt-dlp",
			PlayerClients:      []string{"android", "ios"},
			NoCheckCertificate: true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
		},
	}
}
