package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func clearSecretEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SAKHI_ENV", "SAKHI_PORT", "SAKHI_JWT_SECRET", "SAKHI_DATABASE_DSN", "SAKHI_REDIS_URL",
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GOOGLE_TRANSLATE_API_KEY",
		"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_AppliesFileOverDefaults(t *testing.T) {
	clearSecretEnv(t)
	path := writeConfig(t, `
port: 9000
env: Production
database:
  driver: mysql
  host: db.internal
  name: sakhi_prod
token_ttl: 48h
ai:
  provider: OpenAI_Compatible
  endpoint: https://llm.example.com/v1
  max_tokens: 512
translation:
  provider: llm
  languages: [EN, hi, hi, " ta "]
chat:
  history_retention_days: 30
backup:
  interval: 6h
  s3:
    bucket: backups
    region: ap-south-1
    prefix: /sakhi/
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, defaultDBPort, cfg.Database.Port)
	assert.Equal(t, 48*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "openai-compatible", cfg.AI.Provider)
	assert.Equal(t, 512, cfg.AI.MaxTokens)
	assert.Equal(t, defaultAITimeout, cfg.AI.Timeout)
	assert.Equal(t, "llm", cfg.Translation.Provider)
	assert.Equal(t, []string{"en", "hi", "ta"}, cfg.Translation.Languages)
	assert.Equal(t, 30, cfg.Chat.HistoryRetentionDays)
	assert.Equal(t, 6*time.Hour, cfg.Backup.Interval)
	assert.True(t, cfg.Backup.Enabled)
	assert.Equal(t, "sakhi", cfg.Backup.S3.Prefix)
	assert.False(t, cfg.S3Enabled())
}

func TestLoad_MissingDefaultFileFallsBackToDefaults(t *testing.T) {
	clearSecretEnv(t)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, DefaultLanguages, cfg.Translation.Languages)
	assert.True(t, cfg.IsDev())
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, "port: 8000\nmeilisearch:\n  host: x\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoad_Validation(t *testing.T) {
	clearSecretEnv(t)
	cases := map[string]string{
		"port":        "port: 70000\n",
		"driver":      "database:\n  driver: postgres\n",
		"ai":          "ai:\n  provider: gemini\n",
		"translation": "translation:\n  provider: deepl\n",
		"duration":    "token_ttl: forever\n",
		"interval":    "backup:\n  interval: 10s\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	clearSecretEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("GOOGLE_TRANSLATE_API_KEY", "g-key")
	t.Setenv("SAKHI_JWT_SECRET", "from-env")
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIA")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")

	cfg, err := Load(writeConfig(t, "jwt_secret: from-file\nbackup:\n  s3:\n    bucket: b\n    region: r\n"))
	require.NoError(t, err)
	assert.Equal(t, "sk-ant", cfg.AI.APIKey)
	assert.Equal(t, "g-key", cfg.Translation.APIKey)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.True(t, cfg.S3Enabled())
}

func TestSupportsLanguage(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.SupportsLanguage("kn"))
	assert.False(t, cfg.SupportsLanguage("fr"))
}

func TestMySQLDSN(t *testing.T) {
	db := DatabaseConfig{
		Host:     "10.0.0.5",
		Port:     3307,
		User:     "sakhi",
		Password: "p@ss",
		Name:     "sakhi_prod",
		Params:   map[string]string{"timeout": "5s"},
	}
	parsed, err := mysqldriver.ParseDSN(db.MySQLDSN())
	require.NoError(t, err)
	assert.Equal(t, "sakhi", parsed.User)
	assert.Equal(t, "p@ss", parsed.Passwd)
	assert.Equal(t, "10.0.0.5:3307", parsed.Addr)
	assert.Equal(t, "sakhi_prod", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.Equal(t, 5*time.Second, parsed.Timeout)

	explicit := DatabaseConfig{DSN: "u:p@tcp(h:1)/d"}
	assert.Equal(t, "u:p@tcp(h:1)/d", explicit.MySQLDSN())
}

func TestSQLitePath(t *testing.T) {
	assert.Equal(t, ":memory:", DatabaseConfig{Path: ":memory:"}.SQLitePath())
	assert.True(t, filepath.IsAbs(DatabaseConfig{Path: "data/x.db"}.SQLitePath()))
}
