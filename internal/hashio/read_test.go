package hashio

import (
	"errors"
	"fmt"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestReadFile(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name        string
		hashFunc    HashFunc
		expectedStr string
		err         error
	}{
		{
			name:        "test_read_file_md5",
			hashFunc:    MD5HashFunc(),
			expectedStr: "5eb63bbbe01eeed093cb22bb8f5acdc3",
		},
		{
			name:        "test_read_file_sha1",
			hashFunc:    SHA1HashFunc(),
			expectedStr: "2aae6c35c94fcfb415dbe95f408b9ce91ee846ed",
		},
		{
			name: "test_read_file_without_hash_func",
			err:  ErrHashFuncNotFound,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			fsys := fstest.MapFS{
				"17.10.2026.csv": &fstest.MapFile{
					Data:    []byte("hello world"),
					Mode:    0o600,
					ModTime: time.Time{},
				},
			}

			got, err := ReadFile(fsys, "17.10.2026.csv", tc.hashFunc)
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("expected %v, got %v", tc.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("read file: %v", err)
			}

			if diff := cmp.Diff(tc.expectedStr, fmt.Sprintf("%x", got)); diff != "" {
				t.Errorf("mismatch (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestSameContent(t *testing.T) {
	t.Parallel()
	fsys := fstest.MapFS{
		"rates.csv": &fstest.MapFile{Data: []byte("id,code,count,name,rate\n")},
	}

	testCases := []struct {
		name     string
		fileName string
		content  string
		expected bool
	}{
		{
			name:     "test_same",
			fileName: "rates.csv",
			content:  "id,code,count,name,rate\n",
			expected: true,
		},
		{
			name:     "test_different",
			fileName: "rates.csv",
			content:  "id,code\n",
			expected: false,
		},
		{
			name:     "test_missing_file",
			fileName: "absent.csv",
			content:  "id,code,count,name,rate\n",
			expected: false,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := SameContent(fsys, tc.fileName, []byte(tc.content), MD5HashFunc())
			if err != nil {
				t.Fatalf("same content: %v", err)
			}

			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("mismatch (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestHashFuncByName(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name        string
		hash        string
		expectedStr string
		err         error
	}{
		{name: "test_default", hash: "", expectedStr: "5eb63bbbe01eeed093cb22bb8f5acdc3"},
		{name: "test_md5", hash: "MD5", expectedStr: "5eb63bbbe01eeed093cb22bb8f5acdc3"},
		{name: "test_sha1", hash: "sha1", expectedStr: "2aae6c35c94fcfb415dbe95f408b9ce91ee846ed"},
		{name: "test_unknown", hash: "crc32", err: ErrHashFuncNotFound},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			hashFunc, err := HashFuncByName(tc.hash)
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected %v, got %v", tc.err, err)
			}

			if tc.err != nil {
				return
			}

			got, err := hashFunc([]byte("hello world"))
			if err != nil {
				t.Fatalf("hash: %v", err)
			}

			if diff := cmp.Diff(tc.expectedStr, fmt.Sprintf("%x", got)); diff != "" {
				t.Errorf("mismatch (-want, +got):\n%s", diff)
			}
		})
	}
}
