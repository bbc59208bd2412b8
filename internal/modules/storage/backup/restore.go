package backup

import (
	"archive/zip"
	"fmt"
	"io"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Restore replaces the contents of every table present in the archive.
// The whole restore runs in one transaction.
func Restore(db *gorm.DB, zr *zip.Reader) (Manifest, error) {
	manifest, err := readManifest(zr)
	if err != nil {
		return manifest, err
	}
	entries := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		if table, ok := tableEntry(f.Name); ok {
			entries[table] = f
		}
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, table := range tableNames {
			f, ok := entries[table]
			if !ok || !tx.Migrator().HasTable(table) {
				continue
			}
			rows, err := readRows(f)
			if err != nil {
				return fmt.Errorf("decode %s: %w", table, err)
			}
			if err := tx.Exec("DELETE FROM ?", clause.Table{Name: table}).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
			for i, row := range rows {
				if err := tx.Table(table).Create(row).Error; err != nil {
					return fmt.Errorf("insert row #%d into %s: %w", i+1, table, err)
				}
			}
		}
		return nil
	})
	return manifest, err
}

func readRows(f *zip.File) ([]map[string]interface{}, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	payload, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return decodeRows(payload)
}
