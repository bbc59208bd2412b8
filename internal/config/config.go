package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads the YAML config at configPath on top of the built-in defaults.
// An empty path falls back to DefaultConfigPath, which may be absent.
// Secrets from the environment (and a .env file, if present) win over the file.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	optional := path == ""
	if optional {
		path = DefaultConfigPath
	}

	if err := loadEnvFile(DefaultEnvFile); err != nil {
		return nil, err
	}

	cfg := defaultAppConfig()
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		raw := rawAppConfig{}
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
		if err := applyRawAppConfig(&cfg, raw); err != nil {
			return nil, fmt.Errorf("config file %q: %w", path, err)
		}
	case optional && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return &cfg, nil
}

// Default returns the built-in configuration with environment overrides applied.
func Default() *AppConfig {
	cfg := defaultAppConfig()
	applyEnvOverrides(&cfg)
	return &cfg
}

func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %q: %w", path, err)
	}
	return nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseConfig{
			Driver: defaultDBDriver,
			Path:   defaultDBPath,
			Host:   defaultDBHost,
			Port:   defaultDBPort,
			User:   defaultDBUser,
			Name:   defaultDBName,
		},
		TokenTTL: defaultTokenTTL,
		Log:      LogConfig{Level: defaultLogLevel},
		AI: AIConfig{
			Provider:  defaultAIProvider,
			MaxTokens: defaultAIMaxTokens,
			Timeout:   defaultAITimeout,
		},
		Translation: TranslationConfig{
			Provider:  defaultTranslationProvider,
			Timeout:   defaultTranslationTimeout,
			Languages: append([]string(nil), DefaultLanguages...),
		},
		Backup: BackupConfig{
			Enabled:  true,
			Interval: defaultBackupInterval,
			Keep:     defaultBackupKeep,
		},
	}
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) error {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.Env); v != "" {
		cfg.Env = normalizeEnv(v)
	}
	cfg.Database = applyRawDatabaseConfig(cfg.Database, raw.Database)
	if v := strings.TrimSpace(raw.RedisURL); v != "" {
		cfg.RedisURL = v
	}
	if len(raw.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = normalizeList(raw.AllowedOrigins, false)
	}
	if v := strings.TrimSpace(raw.JWTSecret); v != "" {
		cfg.JWTSecret = v
	}
	if err := applyDuration(&cfg.TokenTTL, raw.TokenTTL, "token_ttl"); err != nil {
		return err
	}

	if v := strings.TrimSpace(raw.Log.Level); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.Log.Dir); v != "" {
		cfg.Log.Dir = v
	}

	if v := strings.TrimSpace(raw.AI.Provider); v != "" {
		cfg.AI.Provider = normalizeProvider(v)
	}
	if v := strings.TrimSpace(raw.AI.APIKey); v != "" {
		cfg.AI.APIKey = v
	}
	if v := strings.TrimSpace(raw.AI.Endpoint); v != "" {
		cfg.AI.Endpoint = v
	}
	if v := strings.TrimSpace(raw.AI.Model); v != "" {
		cfg.AI.Model = v
	}
	if raw.AI.MaxTokens != 0 {
		cfg.AI.MaxTokens = raw.AI.MaxTokens
	}
	if err := applyDuration(&cfg.AI.Timeout, raw.AI.Timeout, "ai.timeout"); err != nil {
		return err
	}

	if v := strings.TrimSpace(raw.Translation.Provider); v != "" {
		cfg.Translation.Provider = normalizeProvider(v)
	}
	if v := strings.TrimSpace(raw.Translation.APIKey); v != "" {
		cfg.Translation.APIKey = v
	}
	if v := strings.TrimSpace(raw.Translation.Endpoint); v != "" {
		cfg.Translation.Endpoint = v
	}
	if err := applyDuration(&cfg.Translation.Timeout, raw.Translation.Timeout, "translation.timeout"); err != nil {
		return err
	}
	if len(raw.Translation.Languages) > 0 {
		cfg.Translation.Languages = normalizeList(raw.Translation.Languages, true)
	}

	if raw.Chat.HistoryRetentionDays != nil {
		cfg.Chat.HistoryRetentionDays = *raw.Chat.HistoryRetentionDays
	}

	if raw.Backup.Enabled != nil {
		cfg.Backup.Enabled = *raw.Backup.Enabled
	}
	if v := strings.TrimSpace(raw.Backup.Dir); v != "" {
		cfg.Backup.Dir = v
	}
	if err := applyDuration(&cfg.Backup.Interval, raw.Backup.Interval, "backup.interval"); err != nil {
		return err
	}
	if raw.Backup.Keep != nil {
		cfg.Backup.Keep = *raw.Backup.Keep
	}
	cfg.Backup.S3 = S3Options{
		Bucket:          strings.TrimSpace(raw.Backup.S3.Bucket),
		Region:          strings.TrimSpace(raw.Backup.S3.Region),
		Endpoint:        strings.TrimSpace(raw.Backup.S3.Endpoint),
		Prefix:          strings.Trim(strings.TrimSpace(raw.Backup.S3.Prefix), "/"),
		AccessKeyID:     strings.TrimSpace(raw.Backup.S3.AccessKeyID),
		SecretAccessKey: strings.TrimSpace(raw.Backup.S3.SecretAccessKey),
		PathStyle:       raw.Backup.S3.PathStyle,
	}
	return nil
}

func applyRawDatabaseConfig(current DatabaseConfig, raw rawDatabaseConfig) DatabaseConfig {
	if v := strings.TrimSpace(raw.Driver); v != "" {
		current.Driver = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.Path); v != "" {
		current.Path = v
	}
	if v := strings.TrimSpace(raw.DSN); v != "" {
		current.DSN = v
	}
	if v := strings.TrimSpace(raw.Host); v != "" {
		current.Host = v
	}
	if raw.Port != 0 {
		current.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.User); v != "" {
		current.User = v
	}
	if raw.Password != "" {
		current.Password = raw.Password
	}
	if v := strings.TrimSpace(raw.Name); v != "" {
		current.Name = v
	}
	if len(raw.Params) > 0 {
		current.Params = make(map[string]string, len(raw.Params))
		for k, v := range raw.Params {
			if key := strings.TrimSpace(k); key != "" {
				current.Params[key] = strings.TrimSpace(v)
			}
		}
	}
	return current
}

// applyEnvOverrides lets deployments keep secrets out of the YAML file.
func applyEnvOverrides(cfg *AppConfig) {
	if v := envValue("SAKHI_ENV"); v != "" {
		cfg.Env = normalizeEnv(v)
	}
	if v := envValue("SAKHI_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := envValue("SAKHI_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := envValue("SAKHI_DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := envValue("SAKHI_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}

	if cfg.AI.APIKey == "" {
		switch cfg.AI.Provider {
		case "anthropic":
			cfg.AI.APIKey = envValue("ANTHROPIC_API_KEY")
		case "openai", "openai-compatible":
			cfg.AI.APIKey = envValue("OPENAI_API_KEY")
		}
	}
	if cfg.Translation.APIKey == "" && cfg.Translation.Provider == "google" {
		cfg.Translation.APIKey = envValue("GOOGLE_TRANSLATE_API_KEY")
	}
	if cfg.Backup.S3.AccessKeyID == "" {
		cfg.Backup.S3.AccessKeyID = envValue("AWS_ACCESS_KEY_ID")
	}
	if cfg.Backup.S3.SecretAccessKey == "" {
		cfg.Backup.S3.SecretAccessKey = envValue("AWS_SECRET_ACCESS_KEY")
	}
}

func (c *AppConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", c.Port)
	}
	switch c.Database.Driver {
	case DriverSQLite:
		if strings.TrimSpace(c.Database.Path) == "" {
			return errors.New("database.path is required for sqlite")
		}
	case DriverMySQL:
		if c.Database.DSN == "" && (c.Database.Port < 1 || c.Database.Port > 65535) {
			return fmt.Errorf("invalid database.port %d, expected 1-65535", c.Database.Port)
		}
	default:
		return fmt.Errorf("unsupported database.driver %q, expected sqlite or mysql", c.Database.Driver)
	}
	if c.TokenTTL <= 0 {
		return errors.New("token_ttl must be positive")
	}
	switch c.AI.Provider {
	case "anthropic", "openai", "openai-compatible", "none":
	default:
		return fmt.Errorf("unsupported ai.provider %q", c.AI.Provider)
	}
	if c.AI.MaxTokens < 1 {
		return fmt.Errorf("invalid ai.max_tokens %d", c.AI.MaxTokens)
	}
	switch c.Translation.Provider {
	case "google", "llm", "none":
	default:
		return fmt.Errorf("unsupported translation.provider %q", c.Translation.Provider)
	}
	if len(c.Translation.Languages) == 0 {
		return errors.New("translation.languages must not be empty")
	}
	if c.Backup.Enabled && c.Backup.Interval < time.Minute {
		return fmt.Errorf("backup.interval %s is too short, expected >= 1m", c.Backup.Interval)
	}
	return nil
}

func applyDuration(dst *time.Duration, raw, field string) error {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", field, v, err)
	}
	*dst = d
	return nil
}

func normalizeEnv(env string) string {
	trimmed := strings.ToLower(strings.TrimSpace(env))
	if trimmed == "" {
		return defaultEnv
	}
	return trimmed
}

func normalizeProvider(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "_", "-")
	t = strings.ReplaceAll(t, " ", "")
	if t == "openaicompatible" {
		t = "openai-compatible"
	}
	return t
}

func normalizeList(items []string, lower bool) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		v := strings.TrimSpace(item)
		if lower {
			v = strings.ToLower(v)
		}
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func envValue(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(c.Env, defaultEnv)
}

// SupportsLanguage reports whether lang is in the configured language set.
func (c *AppConfig) SupportsLanguage(lang string) bool {
	for _, l := range c.Translation.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

func (c *AppConfig) LogDir() string {
	if c == nil {
		return ResolveRuntimePath("", "logs")
	}
	return ResolveRuntimePath(c.Log.Dir, "logs")
}

func (c *AppConfig) BackupDir() string {
	if c == nil {
		return ResolveRuntimePath("", "backups")
	}
	return ResolveRuntimePath(c.Backup.Dir, "backups")
}

// S3Enabled reports whether backups should also be pushed to object storage.
func (c *AppConfig) S3Enabled() bool {
	s := c.Backup.S3
	return s.Bucket != "" && s.Region != "" && s.AccessKeyID != "" && s.SecretAccessKey != ""
}
