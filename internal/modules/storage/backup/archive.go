package backup

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// writeArchive dumps every known table into a zip written to w. Tables
// missing from the schema are skipped; any other failure aborts.
func writeArchive(db *gorm.DB, w io.Writer, now time.Time) (Manifest, error) {
	zw := zip.NewWriter(w)
	manifest := Manifest{
		Format:    archiveFormat,
		Version:   formatVersion,
		Engine:    db.Dialector.Name(),
		CreatedAt: now.UTC(),
		Tables:    make([]string, 0, len(tableNames)),
		Rows:      make(map[string]int64, len(tableNames)),
	}

	for _, table := range tableNames {
		if !db.Migrator().HasTable(table) {
			continue
		}
		var rows []map[string]interface{}
		if err := db.Table(table).Order("1").Find(&rows).Error; err != nil {
			return manifest, fmt.Errorf("read %s: %w", table, err)
		}
		payload, err := encodeRows(rows)
		if err != nil {
			return manifest, fmt.Errorf("encode %s: %w", table, err)
		}
		f, err := zw.Create(path.Join(archiveDBDir, table+".bson"))
		if err != nil {
			return manifest, err
		}
		if _, err := f.Write(payload); err != nil {
			return manifest, err
		}
		manifest.Tables = append(manifest.Tables, table)
		manifest.Rows[table] = int64(len(rows))
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return manifest, err
	}
	mf, err := zw.Create(manifestFile)
	if err != nil {
		return manifest, err
	}
	if _, err := mf.Write(data); err != nil {
		return manifest, err
	}
	return manifest, zw.Close()
}

// readManifest validates the archive header.
func readManifest(zr *zip.Reader) (Manifest, error) {
	var m Manifest
	for _, f := range zr.File {
		if f.Name != manifestFile {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return m, err
		}
		defer rc.Close()
		if err := json.NewDecoder(rc).Decode(&m); err != nil {
			return m, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
		}
		if m.Format != archiveFormat || m.Version > formatVersion {
			return m, fmt.Errorf("%w: format %s v%d", ErrInvalidArchive, m.Format, m.Version)
		}
		return m, nil
	}
	return m, fmt.Errorf("%w: missing manifest", ErrInvalidArchive)
}

// tableEntry maps "sakhi/db/<table>.bson" back to its table name.
func tableEntry(name string) (string, bool) {
	dir, base := path.Split(name)
	if strings.TrimSuffix(dir, "/") != archiveDBDir || !strings.HasSuffix(base, ".bson") {
		return "", false
	}
	return strings.TrimSuffix(base, ".bson"), true
}

func encodeRows(rows []map[string]interface{}) ([]byte, error) {
	var buf bytes.Buffer
	for _, row := range rows {
		doc := make(bson.M, len(row))
		for k, v := range row {
			doc[k] = exportValue(v)
		}
		b, err := bson.Marshal(doc)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	return buf.Bytes(), nil
}

// decodeRows splits a concatenated BSON stream into documents.
func decodeRows(payload []byte) ([]map[string]interface{}, error) {
	rows := make([]map[string]interface{}, 0)
	for cursor := 0; cursor < len(payload); {
		if cursor+4 > len(payload) {
			return nil, fmt.Errorf("truncated bson document at %d", cursor)
		}
		size := int(int32(binary.LittleEndian.Uint32(payload[cursor : cursor+4])))
		if size < 5 || cursor+size > len(payload) {
			return nil, fmt.Errorf("invalid bson document length %d at %d", size, cursor)
		}
		var doc bson.M
		if err := bson.Unmarshal(payload[cursor:cursor+size], &doc); err != nil {
			return nil, err
		}
		row := make(map[string]interface{}, len(doc))
		for k, v := range doc {
			row[k] = importValue(v)
		}
		rows = append(rows, row)
		cursor += size
	}
	return rows, nil
}

// exportValue turns driver values into BSON-friendly ones.
func exportValue(v interface{}) interface{} {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case time.Time:
		return t.UTC()
	default:
		return v
	}
}

// importValue turns decoded BSON values back into driver values.
func importValue(v interface{}) interface{} {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.Null, primitive.Undefined:
		return nil
	case primitive.Binary:
		return t.Data
	case primitive.Decimal128:
		return t.String()
	case primitive.ObjectID:
		return t.Hex()
	default:
		return v
	}
}
