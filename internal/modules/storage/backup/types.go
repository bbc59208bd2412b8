// Package backup exports every table to a zip of BSON streams, restores
// such archives and optionally mirrors them to S3-compatible storage.
package backup

import (
	"errors"
	"time"
)

const (
	archiveRoot     = "sakhi"
	archiveDBDir    = archiveRoot + "/db"
	manifestFile    = archiveRoot + "/manifest.json"
	archiveFormat   = "sakhi-bson"
	formatVersion   = 1
	filenamePrefix  = "sakhi-backup-"
	filenameLayout  = "2006-01-02T15-04-05"
	archiveMimeType = "application/zip"
)

// tableNames is the export order. Parents come before children so a
// restore into a database with foreign keys succeeds.
var tableNames = []string{
	"users",
	"period_logs",
	"menopause_symptoms",
	"menopause_treatments",
	"posts",
	"post_upvotes",
	"comments",
	"meetups",
	"meetup_participants",
	"meetup_stars",
	"chat_history",
	"translation_cache",
}

// Manifest describes an archive.
type Manifest struct {
	Format    string           `json:"format"`
	Version   int              `json:"version"`
	Engine    string           `json:"engine"`
	CreatedAt time.Time        `json:"created_at"`
	Tables    []string         `json:"tables"`
	Rows      map[string]int64 `json:"rows"`
}

// Artifact is a backup written to disk and possibly uploaded.
type Artifact struct {
	Filename string   `json:"filename"`
	Path     string   `json:"path"`
	Size     int64    `json:"size"`
	URL      string   `json:"url,omitempty"`
	Manifest Manifest `json:"manifest"`
}

// Item is one archive found in the backup directory.
type Item struct {
	Filename  string    `json:"filename"`
	Size      string    `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	ErrInvalidArchive = errors.New("not a backup archive")
	ErrInvalidName    = errors.New("invalid backup filename")
	ErrNotFound       = errors.New("backup not found")
)
