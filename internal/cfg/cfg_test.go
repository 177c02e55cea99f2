package cfg

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		wantErr  bool
		validate func(t *testing.T, settings Settings)
	}{
		{
			name:    "defaults",
			envVars: map[string]string{},
			wantErr: false,
			validate: func(t *testing.T, settings Settings) {
				if settings.ListenPort != 5000 {
					t.Errorf("expected default ListenPort 5000, got %d", settings.ListenPort)
				}
				if settings.MetricsPort != 8080 {
					t.Errorf("expected default MetricsPort 8080, got %d", settings.MetricsPort)
				}
				if settings.DashboardPort != 0 {
					t.Errorf("expected dashboard disabled by default, got port %d", settings.DashboardPort)
				}
				if settings.ModelPath != "smallmodel.txt" {
					t.Errorf("expected default ModelPath smallmodel.txt, got %s", settings.ModelPath)
				}
				if settings.DeployRows != 10 {
					t.Errorf("expected default DeployRows 10, got %d", settings.DeployRows)
				}
				if settings.ReadTimeout != 10*time.Second {
					t.Errorf("expected default ReadTimeout 10s, got %v", settings.ReadTimeout)
				}
			},
		},
		{
			name: "custom settings",
			envVars: map[string]string{
				"LISTEN_PORT":    "9000",
				"METRICS_PORT":   "9090",
				"DASHBOARD_PORT": "9091",
				"MODEL_PATH":     "models/other.txt",
				"DEPLOY_ROWS":    "25",
				"READ_TIMEOUT":   "30s",
			},
			wantErr: false,
			validate: func(t *testing.T, settings Settings) {
				if settings.ListenPort != 9000 {
					t.Errorf("expected ListenPort 9000, got %d", settings.ListenPort)
				}
				if settings.MetricsPort != 9090 {
					t.Errorf("expected MetricsPort 9090, got %d", settings.MetricsPort)
				}
				if settings.DashboardPort != 9091 {
					t.Errorf("expected DashboardPort 9091, got %d", settings.DashboardPort)
				}
				if settings.ModelPath != "models/other.txt" {
					t.Errorf("expected ModelPath models/other.txt, got %s", settings.ModelPath)
				}
				if settings.DeployRows != 25 {
					t.Errorf("expected DeployRows 25, got %d", settings.DeployRows)
				}
				if settings.ReadTimeout != 30*time.Second {
					t.Errorf("expected ReadTimeout 30s, got %v", settings.ReadTimeout)
				}
			},
		},
		{
			name: "invalid metrics port",
			envVars: map[string]string{
				"METRICS_PORT": "80",
			},
			wantErr: true,
		},
		{
			name: "invalid dashboard port",
			envVars: map[string]string{
				"DASHBOARD_PORT": "500",
			},
			wantErr: true,
		},
		{
			name: "deploy rows out of range",
			envVars: map[string]string{
				"DEPLOY_ROWS": "-3",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearTestEnv(t)

			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			settings, err := loadFromEnv()

			if tt.wantErr && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if !tt.wantErr && tt.validate != nil {
				tt.validate(t, settings)
			}
		})
	}
}

func TestLoadFromYAML(t *testing.T) {
	tests := []struct {
		name         string
		yamlContent  string
		envOverrides map[string]string
		wantErr      bool
		validate     func(t *testing.T, settings Settings)
	}{
		{
			name: "valid YAML config",
			yamlContent: `
server:
  listenPort: 6000
  readTimeout: "15s"
  writeTimeout: "20s"

ml:
  modelPath: "fixtures/model.txt"

deploy:
  rows: 5

system:
  metricsPort: 9090
  dashboardPort: 9091
`,
			wantErr: false,
			validate: func(t *testing.T, settings Settings) {
				if settings.ListenPort != 6000 {
					t.Errorf("expected ListenPort 6000, got %d", settings.ListenPort)
				}
				if settings.ModelPath != "fixtures/model.txt" {
					t.Errorf("expected ModelPath fixtures/model.txt, got %s", settings.ModelPath)
				}
				if settings.DeployRows != 5 {
					t.Errorf("expected DeployRows 5, got %d", settings.DeployRows)
				}
				if settings.MetricsPort != 9090 {
					t.Errorf("expected MetricsPort 9090, got %d", settings.MetricsPort)
				}
				if settings.DashboardPort != 9091 {
					t.Errorf("expected DashboardPort 9091, got %d", settings.DashboardPort)
				}
				if settings.ReadTimeout != 15*time.Second {
					t.Errorf("expected ReadTimeout 15s, got %v", settings.ReadTimeout)
				}
				if settings.WriteTimeout != 20*time.Second {
					t.Errorf("expected WriteTimeout 20s, got %v", settings.WriteTimeout)
				}
			},
		},
		{
			name: "YAML with env overrides",
			yamlContent: `
server:
  listenPort: 6000
ml:
  modelPath: "fixtures/model.txt"
`,
			envOverrides: map[string]string{
				"LISTEN_PORT": "7000",
				"MODEL_PATH":  "override.txt",
			},
			wantErr: false,
			validate: func(t *testing.T, settings Settings) {
				if settings.ListenPort != 7000 {
					t.Errorf("expected env override ListenPort 7000, got %d", settings.ListenPort)
				}
				if settings.ModelPath != "override.txt" {
					t.Errorf("expected env override ModelPath, got %s", settings.ModelPath)
				}
			},
		},
		{
			name: "sparse YAML falls back to defaults",
			yamlContent: `
deploy:
  rows: 3
`,
			wantErr: false,
			validate: func(t *testing.T, settings Settings) {
				if settings.ListenPort != 5000 {
					t.Errorf("expected default ListenPort 5000, got %d", settings.ListenPort)
				}
				if settings.ModelPath != "smallmodel.txt" {
					t.Errorf("expected default ModelPath, got %s", settings.ModelPath)
				}
				if settings.DeployRows != 3 {
					t.Errorf("expected DeployRows 3, got %d", settings.DeployRows)
				}
			},
		},
		{
			name:        "invalid YAML",
			yamlContent: `invalid: yaml: content: [`,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearTestEnv(t)

			for key, value := range tt.envOverrides {
				t.Setenv(key, value)
			}

			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.yamlContent), 0o644); err != nil {
				t.Fatalf("failed to write test config file: %v", err)
			}

			settings, err := loadFromYAML(configPath)

			if tt.wantErr && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if !tt.wantErr && tt.validate != nil {
				tt.validate(t, settings)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("env when no config file", func(t *testing.T) {
		clearTestEnv(t)
		t.Setenv("MODEL_PATH", "env-model.txt")

		settings, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if settings.ModelPath != "env-model.txt" {
			t.Errorf("expected ModelPath env-model.txt, got %s", settings.ModelPath)
		}
	})

	t.Run("YAML when config file specified", func(t *testing.T) {
		clearTestEnv(t)

		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.yaml")
		content := `
ml:
  modelPath: "yaml-model.txt"
`
		if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write test config file: %v", err)
		}
		t.Setenv("CONFIG_FILE", configPath)

		settings, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if settings.ModelPath != "yaml-model.txt" {
			t.Errorf("expected ModelPath yaml-model.txt, got %s", settings.ModelPath)
		}
	})

	t.Run("missing config file errors", func(t *testing.T) {
		clearTestEnv(t)
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

		if _, err := Load(); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}

// clearTestEnv clears potentially conflicting environment variables
func clearTestEnv(t *testing.T) {
	envVars := []string{
		"CONFIG_FILE", "LISTEN_PORT", "METRICS_PORT", "DASHBOARD_PORT",
		"MODEL_PATH", "DEPLOY_ROWS", "READ_TIMEOUT", "WRITE_TIMEOUT",
	}

	for _, env := range envVars {
		if val := os.Getenv(env); val != "" {
			t.Setenv(env, "")
		}
	}
}
