package common

// Environment variable keys
const (
	EnvConfigFile    = "CONFIG_FILE"
	EnvListenPort    = "LISTEN_PORT"
	EnvMetricsPort   = "METRICS_PORT"
	EnvDashboardPort = "DASHBOARD_PORT"
	EnvModelPath     = "MODEL_PATH"
	EnvDeployRows    = "DEPLOY_ROWS"
	EnvReadTimeout   = "READ_TIMEOUT"
	EnvWriteTimeout  = "WRITE_TIMEOUT"
)

// Configuration defaults
const (
	// DefaultListenPort matches the default port of the original hosting
	// framework so existing deploy checks keep working unchanged.
	DefaultListenPort    = 5000
	DefaultMetricsPort   = 8080
	DefaultDashboardPort = 0 // disabled
	DefaultModelPath     = "smallmodel.txt"
	DefaultDeployRows    = 10
)

// Common error messages
const (
	ErrMsgModelPathRequired = "model path is required"
)

// Validation constants
const (
	MinPort       = 1
	MaxPort       = 65535
	MinAuxPort    = 1024 // metrics and dashboard listeners
	MaxDeployRows = 10000
)
