package database

import (
	"path/filepath"
	"testing"

	"github.com/sakhi-app/core/internal/config"
	"github.com/sakhi-app/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}, logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestMigrate_CreatesSchemaAndRecordsVersions(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, Migrate(db))

	m := db.Migrator()
	for _, table := range []interface{}{
		&models.User{}, &models.PeriodLog{}, &models.SymptomLog{}, &models.Treatment{},
		&models.Post{}, &models.PostUpvote{}, &models.Comment{}, &models.Meetup{},
		&models.MeetupParticipant{}, &models.MeetupStar{}, &models.ChatHistory{},
		&models.TranslationCacheEntry{},
	} {
		assert.True(t, m.HasTable(table), "%T", table)
	}
	assert.True(t, m.HasIndex(&models.PeriodLog{}, "idx_period_logs_user_start"))

	applied, err := Applied(db)
	require.NoError(t, err)
	require.Len(t, applied, LatestVersion())
	assert.Equal(t, "create_core_tables", applied[0].Name)
}

func TestMigrate_IsIdempotent(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	var count int64
	require.NoError(t, db.Model(&SchemaMigration{}).Count(&count).Error)
	assert.EqualValues(t, LatestVersion(), count)
}

func TestMigrate_UpgradesLegacyUsersTable(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, db.Exec(`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		phone TEXT UNIQUE,
		name TEXT,
		language_pref TEXT DEFAULT 'en',
		city TEXT,
		anonymous BOOLEAN DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO users (name, city) VALUES ('Asha', 'Pune')`).Error)

	require.NoError(t, Migrate(db))

	m := db.Migrator()
	assert.True(t, m.HasColumn(&models.User{}, "MenopauseStage"))
	assert.True(t, m.HasColumn(&models.User{}, "PinHash"))

	var u models.User
	require.NoError(t, db.First(&u).Error)
	assert.Equal(t, "Asha", u.Name)
}

func TestOpen_SQLiteFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sakhi.db")
	db, err := Open(config.DatabaseConfig{Driver: config.DriverSQLite, Path: path}, logger.Silent)
	require.NoError(t, err)
	defer Close(db)
	require.NoError(t, Migrate(db))
	assert.FileExists(t, path)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "oracle"}, logger.Silent)
	assert.Error(t, err)
}
