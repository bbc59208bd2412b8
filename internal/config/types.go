package config

import "time"

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int
	Env            string // "development" | "production" | "test"
	Database       DatabaseConfig
	RedisURL       string
	AllowedOrigins []string
	JWTSecret      string
	TokenTTL       time.Duration
	Log            LogConfig
	AI             AIConfig
	Translation    TranslationConfig
	Chat           ChatConfig
	Backup         BackupConfig
}

type DatabaseConfig struct {
	Driver   string
	Path     string // sqlite file, ":memory:" allowed
	DSN      string // mysql DSN, takes precedence over the discrete fields
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Params   map[string]string
}

type LogConfig struct {
	Level string
	Dir   string
}

// AIConfig selects the hosted completion endpoint used by chat and insights.
type AIConfig struct {
	Provider  string // anthropic | openai | openai-compatible | none
	APIKey    string
	Endpoint  string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

type TranslationConfig struct {
	Provider  string // google | llm | none
	APIKey    string
	Endpoint  string
	Timeout   time.Duration
	Languages []string
}

type ChatConfig struct {
	// HistoryRetentionDays <= 0 keeps history forever.
	HistoryRetentionDays int
}

type BackupConfig struct {
	Enabled  bool
	Dir      string
	Interval time.Duration
	// Keep is how many local archives survive pruning; <= 0 keeps all.
	Keep int
	S3   S3Options
}

type S3Options struct {
	Bucket          string
	Region          string
	Endpoint        string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
}

type rawAppConfig struct {
	Port           int                  `yaml:"port"`
	Env            string               `yaml:"env"`
	Database       rawDatabaseConfig    `yaml:"database"`
	RedisURL       string               `yaml:"redis_url"`
	AllowedOrigins []string             `yaml:"allowed_origins"`
	JWTSecret      string               `yaml:"jwt_secret"`
	TokenTTL       string               `yaml:"token_ttl"`
	Log            rawLogConfig         `yaml:"log"`
	AI             rawAIConfig          `yaml:"ai"`
	Translation    rawTranslationConfig `yaml:"translation"`
	Chat           rawChatConfig        `yaml:"chat"`
	Backup         rawBackupConfig      `yaml:"backup"`
}

type rawDatabaseConfig struct {
	Driver   string            `yaml:"driver"`
	Path     string            `yaml:"path"`
	DSN      string            `yaml:"dsn"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	User     string            `yaml:"user"`
	Password string            `yaml:"password"`
	Name     string            `yaml:"name"`
	Params   map[string]string `yaml:"params"`
}

type rawLogConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

type rawAIConfig struct {
	Provider  string `yaml:"provider"`
	APIKey    string `yaml:"api_key"`
	Endpoint  string `yaml:"endpoint"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
	Timeout   string `yaml:"timeout"`
}

type rawTranslationConfig struct {
	Provider  string   `yaml:"provider"`
	APIKey    string   `yaml:"api_key"`
	Endpoint  string   `yaml:"endpoint"`
	Timeout   string   `yaml:"timeout"`
	Languages []string `yaml:"languages"`
}

type rawChatConfig struct {
	HistoryRetentionDays *int `yaml:"history_retention_days"`
}

type rawBackupConfig struct {
	Enabled  *bool        `yaml:"enabled"`
	Dir      string       `yaml:"dir"`
	Interval string       `yaml:"interval"`
	Keep     *int         `yaml:"keep"`
	S3       rawS3Options `yaml:"s3"`
}

type rawS3Options struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PathStyle       bool   `yaml:"path_style"`
}
