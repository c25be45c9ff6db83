package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mrzlkvvv/OhMyCash/internal/hashio"
	"github.com/mrzlkvvv/OhMyCash/provider"
)

const (
	fileLayout = "02.01.2006"
	fileExt    = ".csv"
	aliasExt   = ".alias"
)

var (
	// ErrNotFound means no snapshot was ever written for the date
	ErrNotFound = errors.New("snapshot not found")
	// ErrCorruptData means the cached file exists but cannot be decoded
	ErrCorruptData = errors.New("snapshot data is corrupt")
)

type Option func(*FileStore)

// WithHashFunc sets the hash used to detect rewrites of identical content
func WithHashFunc(f hashio.HashFunc) Option {
	return func(s *FileStore) {
		s.hashFunc = f
	}
}

// WithFileMode sets the permission bits of written snapshot files
func WithFileMode(mode os.FileMode) Option {
	return func(s *FileStore) {
		s.mode = mode
	}
}

// FileStore keeps one CSV file per actual date in a directory. The presence of a file means the
// date is fully resolved: files are only ever created by an atomic rename
type FileStore struct {
	dir      string
	fsys     fs.FS
	hashFunc hashio.HashFunc
	mode     os.FileMode
}

// NewFileStore returns a store rooted at dir. The directory is created on the first write
func NewFileStore(dir string, opts ...Option) *FileStore {
	s := &FileStore{
		dir:      dir,
		fsys:     os.DirFS(dir),
		hashFunc: hashio.MD5HashFunc(),
		mode:     0o644,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Dir returns the directory the store writes to
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the file path of the snapshot for date
func (s *FileStore) Path(date time.Time) string {
	return filepath.Join(s.dir, fileName(date))
}

func (s *FileStore) Has(date time.Time) (bool, error) {
	_, err := fs.Stat(s.fsys, fileName(date))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}

		return false, fmt.Errorf("stat %s: %w", fileName(date), err)
	}

	return true, nil
}

func (s *FileStore) Read(date time.Time) ([]provider.Record, error) {
	b, err := fs.ReadFile(s.fsys, fileName(date))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, date.Format(fileLayout))
		}

		return nil, fmt.Errorf("read file %s: %w", fileName(date), err)
	}

	records, err := decodeCSV(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fileName(date), err)
	}

	return records, nil
}

// Write stores records for date. Identical content already on disk is left untouched,
// anything else is replaced through a temp file and a rename
func (s *FileStore) Write(date time.Time, records []provider.Record) error {
	b, err := encodeCSV(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", fileName(date), err)
	}

	same, err := hashio.SameContent(s.fsys, fileName(date), b, s.hashFunc)
	if err != nil {
		return fmt.Errorf("compare %s: %w", fileName(date), err)
	}

	if same {
		return nil
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", s.dir, err)
	}

	if err := writeFileAtomic(s.Path(date), b, s.mode); err != nil {
		return fmt.Errorf("write %s: %w", fileName(date), err)
	}

	return nil
}

// Alias returns the actual date a requested date without its own publication resolved to
func (s *FileStore) Alias(requested time.Time) (time.Time, bool, error) {
	b, err := fs.ReadFile(s.fsys, aliasName(requested))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, false, nil
		}

		return time.Time{}, false, fmt.Errorf("read alias %s: %w", aliasName(requested), err)
	}

	actual, err := time.Parse(fileLayout, strings.TrimSpace(string(b)))
	if err != nil || actual.After(requested) {
		return time.Time{}, false, fmt.Errorf("%w: alias %s", ErrCorruptData, aliasName(requested))
	}

	return actual, true, nil
}

// WriteAlias records that requested resolved to the snapshot of actual
func (s *FileStore) WriteAlias(requested, actual time.Time) error {
	b := []byte(actual.Format(fileLayout) + "\n")

	same, err := hashio.SameContent(s.fsys, aliasName(requested), b, s.hashFunc)
	if err != nil {
		return fmt.Errorf("compare %s: %w", aliasName(requested), err)
	}

	if same {
		return nil
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", s.dir, err)
	}

	if err := writeFileAtomic(filepath.Join(s.dir, aliasName(requested)), b, s.mode); err != nil {
		return fmt.Errorf("write %s: %w", aliasName(requested), err)
	}

	return nil
}

func aliasName(date time.Time) string {
	return date.Format(fileLayout) + aliasExt
}

func fileName(date time.Time) string {
	return date.Format(fileLayout) + fileExt
}

func writeFileAtomic(path string, b []byte, mode os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}

	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = bytes.NewReader(b).WriteTo(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}

	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}

	if err = os.Chmod(tmp.Name(), mode); err != nil {
		return fmt.Errorf("chmod temp: %w", err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}
