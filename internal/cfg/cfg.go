package cfg

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"modelserve/internal/common"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Settings struct {
	ListenPort    int
	MetricsPort   int
	DashboardPort int
	ModelPath     string
	DeployRows    int
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
}

type ConfigFile struct {
	Server struct {
		ListenPort   int    `yaml:"listenPort"`
		ReadTimeout  string `yaml:"readTimeout"`
		WriteTimeout string `yaml:"writeTimeout"`
	} `yaml:"server"`

	ML struct {
		ModelPath string `yaml:"modelPath"`
	} `yaml:"ml"`

	Deploy struct {
		Rows int `yaml:"rows"`
	} `yaml:"deploy"`

	System struct {
		MetricsPort   int `yaml:"metricsPort"`
		DashboardPort int `yaml:"dashboardPort"`
	} `yaml:"system"`
}

func Load() (Settings, error) {
	// Pick up a local .env if present; env vars win either way.
	_ = godotenv.Load()

	// Try to load from YAML file first
	if configPath := os.Getenv(common.EnvConfigFile); configPath != "" {
		return loadFromYAML(configPath)
	}

	// Fallback to environment variables
	return loadFromEnv()
}

func loadFromYAML(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	readTimeout, err := time.ParseDuration(config.Server.ReadTimeout)
	if err != nil {
		readTimeout = 10 * time.Second
	}
	writeTimeout, err := time.ParseDuration(config.Server.WriteTimeout)
	if err != nil {
		writeTimeout = 10 * time.Second
	}

	settings := Settings{
		ListenPort:    getIntFromEnvOrConfig(common.EnvListenPort, config.Server.ListenPort, common.DefaultListenPort),
		MetricsPort:   getIntFromEnvOrConfig(common.EnvMetricsPort, config.System.MetricsPort, common.DefaultMetricsPort),
		DashboardPort: getIntFromEnvOrConfig(common.EnvDashboardPort, config.System.DashboardPort, common.DefaultDashboardPort),
		ModelPath:     getEnvOrDefault(common.EnvModelPath, orDefault(config.ML.ModelPath, common.DefaultModelPath)),
		DeployRows:    getIntFromEnvOrConfig(common.EnvDeployRows, config.Deploy.Rows, common.DefaultDeployRows),
		ReadTimeout:   readTimeout,
		WriteTimeout:  writeTimeout,
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

func loadFromEnv() (Settings, error) {
	settings := Settings{
		ListenPort:    getIntOrDefault(common.EnvListenPort, common.DefaultListenPort),
		MetricsPort:   getIntOrDefault(common.EnvMetricsPort, common.DefaultMetricsPort),
		DashboardPort: getIntOrDefault(common.EnvDashboardPort, common.DefaultDashboardPort),
		ModelPath:     getEnvOrDefault(common.EnvModelPath, common.DefaultModelPath),
		DeployRows:    getIntOrDefault(common.EnvDeployRows, common.DefaultDeployRows),
		ReadTimeout:   getDurationOrDefault(common.EnvReadTimeout, 10*time.Second),
		WriteTimeout:  getDurationOrDefault(common.EnvWriteTimeout, 10*time.Second),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getIntFromEnvOrConfig(key string, configValue, defaultValue int) int {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.Atoi(env); err == nil {
			return val
		}
	}
	if configValue != 0 {
		return configValue
	}
	return defaultValue
}

// validateSettings performs validation of configuration values
func validateSettings(settings *Settings) error {
	if settings.ModelPath == "" {
		return fmt.Errorf("%s", common.ErrMsgModelPathRequired)
	}

	if settings.ListenPort < common.MinPort || settings.ListenPort > common.MaxPort {
		return fmt.Errorf("listen port must be between %d and %d, got %d",
			common.MinPort, common.MaxPort, settings.ListenPort)
	}
	if settings.MetricsPort < common.MinAuxPort || settings.MetricsPort > common.MaxPort {
		return fmt.Errorf("metrics port must be between %d and %d, got %d",
			common.MinAuxPort, common.MaxPort, settings.MetricsPort)
	}
	// Dashboard is optional; 0 means disabled.
	if settings.DashboardPort != 0 &&
		(settings.DashboardPort < common.MinAuxPort || settings.DashboardPort > common.MaxPort) {
		return fmt.Errorf("dashboard port must be 0 or between %d and %d, got %d",
			common.MinAuxPort, common.MaxPort, settings.DashboardPort)
	}

	if settings.DeployRows <= 0 || settings.DeployRows > common.MaxDeployRows {
		return fmt.Errorf("deploy rows must be between 1 and %d, got %d",
			common.MaxDeployRows, settings.DeployRows)
	}

	if settings.ReadTimeout < time.Second || settings.ReadTimeout > time.Minute {
		return fmt.Errorf("read timeout must be between 1s and 1m, got %v", settings.ReadTimeout)
	}
	if settings.WriteTimeout < time.Second || settings.WriteTimeout > time.Minute {
		return fmt.Errorf("write timeout must be between 1s and 1m, got %v", settings.WriteTimeout)
	}

	return nil
}
