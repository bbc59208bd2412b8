package database

import (
	"fmt"
	"time"

	"github.com/sakhi-app/core/internal/models"
	"gorm.io/gorm"
)

// SchemaMigration records an applied migration.
type SchemaMigration struct {
	Version   int       `json:"version"    gorm:"primaryKey;autoIncrement:false"`
	Name      string    `json:"name"       gorm:"size:128;not null"`
	AppliedAt time.Time `json:"applied_at" gorm:"not null"`
}

func (SchemaMigration) TableName() string { return "schema_migrations" }

type migration struct {
	Version int
	Name    string
	Up      func(tx *gorm.DB) error
}

// Every Up must be idempotent: databases created by older releases may
// already carry some of the tables and columns.
var migrations = []migration{
	{1, "create_core_tables", func(tx *gorm.DB) error {
		return ensureTables(tx,
			&models.User{},
			&models.PeriodLog{},
			&models.Post{},
			&models.Comment{},
			&models.Meetup{},
			&models.MeetupParticipant{},
			&models.PostUpvote{},
			&models.ChatHistory{},
		)
	}},
	{2, "add_user_menopause_profile", func(tx *gorm.DB) error {
		return ensureColumns(tx, &models.User{}, "Age", "MenopauseStage")
	}},
	{3, "create_menopause_tables", func(tx *gorm.DB) error {
		return ensureTables(tx, &models.SymptomLog{}, &models.Treatment{})
	}},
	{4, "add_meetup_details", func(tx *gorm.DB) error {
		if err := ensureColumns(tx, &models.Meetup{}, "MeetupType", "Location", "Language", "Stars"); err != nil {
			return err
		}
		return ensureTables(tx, &models.MeetupStar{})
	}},
	{5, "create_translation_cache", func(tx *gorm.DB) error {
		return ensureTables(tx, &models.TranslationCacheEntry{})
	}},
	{6, "add_user_pin", func(tx *gorm.DB) error {
		return ensureColumns(tx, &models.User{}, "PinHash")
	}},
	{7, "add_lookup_indexes", func(tx *gorm.DB) error {
		if err := ensureIndexes(tx, &models.PeriodLog{}, "idx_period_logs_user_start"); err != nil {
			return err
		}
		return ensureIndexes(tx, &models.SymptomLog{}, "idx_menopause_symptoms_user_date")
	}},
}

// LatestVersion is the schema version after all migrations ran.
func LatestVersion() int {
	return migrations[len(migrations)-1].Version
}

// Migrate applies pending migrations in order, each in its own transaction.
func Migrate(db *gorm.DB) error {
	if err := ensureTables(db, &SchemaMigration{}); err != nil {
		return err
	}

	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{
				Version:   m.Version,
				Name:      m.Name,
				AppliedAt: time.Now(),
			}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %03d %s: %w", m.Version, m.Name, err)
		}
	}
	return nil
}

// Applied lists recorded migrations, oldest first.
func Applied(db *gorm.DB) ([]SchemaMigration, error) {
	var rows []SchemaMigration
	if !db.Migrator().HasTable(&SchemaMigration{}) {
		return rows, nil
	}
	err := db.Order("version ASC").Find(&rows).Error
	return rows, err
}

func appliedVersions(db *gorm.DB) (map[int]bool, error) {
	rows, err := Applied(db)
	if err != nil {
		return nil, err
	}
	out := make(map[int]bool, len(rows))
	for _, r := range rows {
		out[r.Version] = true
	}
	return out, nil
}

func ensureTables(tx *gorm.DB, tables ...interface{}) error {
	m := tx.Migrator()
	for _, t := range tables {
		if m.HasTable(t) {
			continue
		}
		if err := m.CreateTable(t); err != nil {
			return err
		}
	}
	return nil
}

func ensureColumns(tx *gorm.DB, table interface{}, fields ...string) error {
	m := tx.Migrator()
	for _, f := range fields {
		if m.HasColumn(table, f) {
			continue
		}
		if err := m.AddColumn(table, f); err != nil {
			return fmt.Errorf("add column %s: %w", f, err)
		}
	}
	return nil
}

func ensureIndexes(tx *gorm.DB, table interface{}, names ...string) error {
	m := tx.Migrator()
	for _, name := range names {
		if m.HasIndex(table, name) {
			continue
		}
		if err := m.CreateIndex(table, name); err != nil {
			return fmt.Errorf("create index %s: %w", name, err)
		}
	}
	return nil
}
