package config

import "time"

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	// DefaultEnvFile is loaded into the process environment before the YAML file is read.
	DefaultEnvFile = ".env"

	defaultPort      = 8000
	defaultEnv       = "development"
	defaultDBDriver  = DriverSQLite
	defaultDBPath    = "data/sakhi.db"
	defaultDBHost    = "127.0.0.1"
	defaultDBPort    = 3306
	defaultDBUser    = "root"
	defaultDBName    = "sakhi"
	defaultDBCharset = "utf8mb4"
	defaultLogLevel  = "info"
	defaultTokenTTL  = 30 * 24 * time.Hour

	defaultAIProvider  = "anthropic"
	defaultAIMaxTokens = 800
	defaultAITimeout   = 30 * time.Second

	defaultTranslationProvider = "google"
	defaultTranslationTimeout  = 10 * time.Second

	defaultBackupInterval = 24 * time.Hour
	defaultBackupKeep     = 7
)

// Database drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// DefaultLanguages is the supported language set when none is configured.
var DefaultLanguages = []string{"en", "hi", "ta", "kn"}
