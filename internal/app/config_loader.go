package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/yourusername/bulktube-go/internal/domain"
)

// LoadConfig loads configuration from file and environment
func LoadConfig(configPath string) (*domain.Config, error) {
	// Start with default config
	config := domain.DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.bulktube")
		v.AddConfigPath("/etc/bulktube")
	}

	// Register defaults so AutomaticEnv can override keys absent from the file
	setDefaults(v, config)

	v.SetEnvPrefix("BULKTUBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config = expandPaths(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func setDefaults(v *viper.Viper, config *domain.Config) {
	v.SetDefault("server.host", config.Server.Host)
	v.SetDefault("server.port", config.Server.Port)
	v.SetDefault("server.cors_origins", config.Server.CORSOrigins)
	v.SetDefault("download.dir", config.Download.Dir)
	v.SetDefault("download.logs_dir", config.Download.LogsDir)
	v.SetDefault("download.output_template", config.Download.OutputTemplate)
	v.SetDefault("download.preferred_container", config.Download.PreferredContainer)
	v.SetDefault("extractor.binary", config.Extractor.Binary)
	v.SetDefault("extractor.player_clients", config.Extractor.PlayerClients)
	v.SetDefault("extractor.no_check_certificate", config.Extractor.NoCheckCertificate)
	v.SetDefault("extractor.timeout", config.Extractor.Timeout)
	v.SetDefault("extractor.info_cache_ttl", config.Extractor.InfoCacheTTL)
	v.SetDefault("logging.level", config.Logging.Level)
	v.SetDefault("logging.format", config.Logging.Format)
	v.SetDefault("logging.output_path", config.Logging.OutputPath)
}

// expandPaths expands environment variables in path configurations
func expandPaths(config *domain.Config) *domain.Config {
	config.Download.Dir = expandPath(config.Download.Dir)
	config.Download.LogsDir = expandPath(config.Download.LogsDir)

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}

	return config
}

// expandPath expands environment variables and ~ in paths
func expandPath(path string) string {
	path = os.ExpandEnv(path)

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return path
}

// validateConfig validates the configuration
func validateConfig(config *domain.Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Download.Dir == "" {
		return fmt.Errorf("download directory not configured")
	}

	if config.Download.LogsDir == "" {
		config.Download.LogsDir = filepath.Join(config.Download.Dir, "logs")
	}

	if !strings.Contains(config.Download.OutputTemplate, "%(id)s") {
		return fmt.Errorf("output template must contain %%(id)s to keep file names unique: %q", config.Download.OutputTemplate)
	}

	if config.Download.PreferredContainer == "" {
		config.Download.PreferredContainer = "mp4"
	}

	if config.Extractor.Binary == "" {
		return fmt.Errorf("extractor binary not configured")
	}

	if config.Extractor.Timeout < 0 {
		return fmt.Errorf("extractor timeout cannot be negative")
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	return nil
}
