package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/mrzlkvvv/OhMyCash/internal/logging"
)

// Uploader is a remote store addressed by slash separated keys
type Uploader interface {
	Exists(ctx context.Context, key string) (bool, error)
	Upload(ctx context.Context, key string, r io.Reader) error
}

// SyncReport lists the keys handled by one Sync run
type SyncReport struct {
	Uploaded []string
	Skipped  []string
}

// Sync uploads every regular file under root that the uploader does not have yet.
// A failing file does not stop the walk, all failures are returned together
func Sync(ctx context.Context, root string, uploader Uploader) (SyncReport, error) {
	logger := logging.FromContext(ctx)

	var (
		report SyncReport
		result *multierror.Error
	)

	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("walk %s: %w", p, err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}

			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("relative path of %s: %w", p, err))
			return nil
		}

		key := filepath.ToSlash(rel)
		uploaded, err := syncFile(ctx, uploader, p, key)
		if err != nil {
			result = multierror.Append(result, err)
			return nil
		}

		if uploaded {
			logger.Printf("file %q uploaded as %q", p, key)
			report.Uploaded = append(report.Uploaded, key)
		} else {
			report.Skipped = append(report.Skipped, key)
		}

		return nil
	})
	if walkErr != nil {
		result = multierror.Append(result, walkErr)
	}

	return report, result.ErrorOrNil()
}

func syncFile(ctx context.Context, uploader Uploader, p, key string) (bool, error) {
	ok, err := uploader.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check %s: %w", key, err)
	}

	if ok {
		return false, nil
	}

	f, err := os.Open(p)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", p, err)
	}
	defer f.Close()

	if err := uploader.Upload(ctx, key, f); err != nil {
		return false, fmt.Errorf("upload %s: %w", key, err)
	}

	return true, nil
}

var _ Uploader = (*DirUploader)(nil)

// DirUploader mirrors uploaded files into a local directory, a mounted disk for example
type DirUploader struct {
	dir string
}

func NewDirUploader(dir string) *DirUploader {
	return &DirUploader{dir: dir}
}

func (u *DirUploader) Exists(_ context.Context, key string) (bool, error) {
	_, err := os.Stat(u.path(key))
	if err == nil {
		return true, nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	return false, err
}

func (u *DirUploader) Upload(_ context.Context, key string, r io.Reader) error {
	dst := u.path(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return fmt.Errorf("copy: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("close: %w", err)
	}

	return nil
}

func (u *DirUploader) path(key string) string {
	return filepath.Join(u.dir, filepath.FromSlash(path.Clean("/"+key)))
}
