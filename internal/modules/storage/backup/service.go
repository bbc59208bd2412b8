package backup

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	dir      string
	prefix   string
	uploader Uploader
	log      *zap.Logger
	now      func() time.Time
}

// NewService writes archives into dir. uploader may be nil.
func NewService(db *gorm.DB, dir, prefix string, uploader Uploader, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		db:       db,
		dir:      dir,
		prefix:   prefix,
		uploader: uploader,
		log:      log.Named("backup"),
		now:      time.Now,
	}
}

// Create dumps the database to a new archive and uploads it when an
// uploader is configured. An upload failure is reported but the local
// archive is kept.
func (s *Service) Create(ctx context.Context) (*Artifact, error) {
	now := s.now()
	var buf bytes.Buffer
	manifest, err := writeArchive(s.db, &buf, now)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, err
	}

	filename := filenamePrefix + now.UTC().Format(filenameLayout) + ".zip"
	target := filepath.Join(s.dir, filename)
	if err := os.WriteFile(target, buf.Bytes(), 0o644); err != nil {
		return nil, err
	}
	artifact := &Artifact{
		Filename: filename,
		Path:     target,
		Size:     int64(buf.Len()),
		Manifest: manifest,
	}
	s.log.Info("backup written", zap.String("file", target), zap.Int64("bytes", artifact.Size), zap.Strings("tables", manifest.Tables))

	if s.uploader == nil {
		return artifact, nil
	}
	key := objectKey(s.prefix, filename, now.UTC())
	url, err := s.uploader.Upload(ctx, key, buf.Bytes(), archiveMimeType)
	if err != nil {
		return artifact, fmt.Errorf("upload backup: %w", err)
	}
	artifact.URL = url
	s.log.Info("backup uploaded", zap.String("key", key))
	return artifact, nil
}

// List returns the archives in the backup directory, newest first.
func (s *Service) List() ([]Item, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return []Item{}, nil
	}
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isArchiveName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		items = append(items, Item{Filename: e.Name(), Size: formatSize(info.Size()), CreatedAt: info.ModTime()})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Filename > items[j].Filename })
	return items, nil
}

// Path resolves a listed archive name to its file, rejecting traversal.
func (s *Service) Path(filename string) (string, error) {
	if !isArchiveName(filename) || filepath.Base(filename) != filename {
		return "", ErrInvalidName
	}
	p := filepath.Join(s.dir, filename)
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", err
	}
	return p, nil
}

func (s *Service) Delete(filename string) error {
	p, err := s.Path(filename)
	if err != nil {
		return err
	}
	return os.Remove(p)
}

// RestoreFile loads an archive from disk into the database.
func (s *Service) RestoreFile(filename string) (Manifest, error) {
	p := filename
	if filepath.Base(filename) == filename {
		var err error
		if p, err = s.Path(filename); err != nil {
			return Manifest{}, err
		}
	}
	zr, err := zip.OpenReader(p)
	if err != nil {
		return Manifest{}, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	defer zr.Close()
	m, err := Restore(s.db, &zr.Reader)
	if err != nil {
		return m, err
	}
	s.log.Info("backup restored", zap.String("file", p), zap.Strings("tables", m.Tables))
	return m, nil
}

// Prune keeps the newest keep archives and deletes the rest.
func (s *Service) Prune(keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}
	items, err := s.List()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, it := range items[min(keep, len(items)):] {
		if err := os.Remove(filepath.Join(s.dir, it.Filename)); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func isArchiveName(name string) bool {
	return strings.HasPrefix(name, filenamePrefix) && strings.HasSuffix(name, ".zip")
}

func formatSize(size int64) string {
	switch {
	case size >= 1<<20:
		return fmt.Sprintf("%.2f MB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.2f KB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}
