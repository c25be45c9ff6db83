package workflow

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"
	"github.com/mrzlkvvv/OhMyCash/internal/logging"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}

		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
}

func TestSync(t *testing.T) {
	t.Parallel()

	ctx := logging.WithLogger(context.Background(), logging.NewDiscardLogger())
	root := t.TempDir()
	target := t.TempDir()

	writeFiles(t, root, map[string]string{
		"rates/16.10.2026.csv": "id,code,count,name,rate\n",
		"rates/17.10.2026.csv": "id,code,count,name,rate\n",
		"plots/USD.csv":        "date,rate,count\n",
		"notes.txt":            "hello",
	})
	writeFiles(t, target, map[string]string{
		"rates/16.10.2026.csv": "already there",
	})

	report, err := Sync(ctx, root, NewDirUploader(target))
	if err != nil {
		t.Fatalf("sync: %v", err)
	}

	sort.Strings(report.Uploaded)
	expected := SyncReport{
		Uploaded: []string{
			"notes.txt",
			"plots/USD.csv",
			"rates/17.10.2026.csv",
		},
		Skipped: []string{"rates/16.10.2026.csv"},
	}

	if diff := cmp.Diff(expected, report); diff != "" {
		t.Errorf("report mismatch (-want, +got):\n%s", diff)
	}

	b, err := os.ReadFile(filepath.Join(target, "rates", "16.10.2026.csv"))
	if err != nil {
		t.Fatalf("read target: %v", err)
	}

	if string(b) != "already there" {
		t.Errorf("existing file overwritten: %q", b)
	}

	b, err = os.ReadFile(filepath.Join(target, "notes.txt"))
	if err != nil {
		t.Fatalf("read target: %v", err)
	}

	if string(b) != "hello" {
		t.Errorf("uploaded content got %q, want %q", b, "hello")
	}

	again, err := Sync(ctx, root, NewDirUploader(target))
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}

	if len(again.Uploaded) != 0 || len(again.Skipped) != 4 {
		t.Errorf("second sync got %+v, want everything skipped", again)
	}
}

var errUploadFailed = errors.New("upload failed")

// failingUploader rejects every key it is told to fail
type failingUploader struct {
	fail map[string]bool
	got  []string
}

func (u *failingUploader) Exists(context.Context, string) (bool, error) {
	return false, nil
}

func (u *failingUploader) Upload(_ context.Context, key string, r io.Reader) error {
	if u.fail[key] {
		return errUploadFailed
	}

	if _, err := io.Copy(io.Discard, r); err != nil {
		return err
	}

	u.got = append(u.got, key)

	return nil
}

func TestSync_AggregatesErrors(t *testing.T) {
	t.Parallel()

	ctx := logging.WithLogger(context.Background(), logging.NewDiscardLogger())
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.csv": "a",
		"b.csv": "b",
		"c.csv": "c",
	})

	uploader := &failingUploader{fail: map[string]bool{"a.csv": true, "c.csv": true}}
	report, err := Sync(ctx, root, uploader)
	if !errors.Is(err, errUploadFailed) {
		t.Fatalf("error got %v, want %v", err, errUploadFailed)
	}

	var merr *multierror.Error
	if !errors.As(err, &merr) {
		t.Fatalf("error %T is not *multierror.Error", err)
	}

	if len(merr.Errors) != 2 {
		t.Errorf("errors got %d, want 2", len(merr.Errors))
	}

	if diff := cmp.Diff([]string{"b.csv"}, report.Uploaded); diff != "" {
		t.Errorf("uploaded mismatch (-want, +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"b.csv"}, uploader.got); diff != "" {
		t.Errorf("uploader mismatch (-want, +got):\n%s", diff)
	}
}
