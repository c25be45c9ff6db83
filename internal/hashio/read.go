package hashio

import (
	"bytes"
	"crypto/md5" //nolint
	"crypto/sha1"
	"errors"
	"fmt"
	"hash"
	"io/fs"
	"strings"
)

type HashFunc func([]byte) ([]byte, error)

var ErrHashFuncNotFound = errors.New("hash func not found")

// ReadFile takes the virtual file system interface fs.FS and fully reads the contents of the file,
// then applies a HashFunc to it
func ReadFile(fsys fs.FS, fileName string, hashFunc HashFunc) ([]byte, error) {
	if hashFunc == nil {
		return nil, ErrHashFuncNotFound
	}

	input, err := fs.ReadFile(fsys, fileName)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", fileName, err)
	}

	output, err := hashFunc(input)
	if err != nil {
		return nil, fmt.Errorf("call HashFunc: %w", err)
	}

	return output, nil
}

// SameContent reports whether the file in fsys hashes to the same sum as b.
// A missing file is not an error, it is simply not the same content
func SameContent(fsys fs.FS, fileName string, b []byte, hashFunc HashFunc) (bool, error) {
	oldSum, err := ReadFile(fsys, fileName, hashFunc)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}

		return false, err
	}

	newSum, err := hashFunc(b)
	if err != nil {
		return false, fmt.Errorf("call HashFunc: %w", err)
	}

	return bytes.Equal(oldSum, newSum), nil
}

func HashSumFunc(hasher func() hash.Hash) HashFunc {
	return func(in []byte) ([]byte, error) {
		h := hasher()
		if _, err := h.Write(in); err != nil {
			return nil, fmt.Errorf("%T(hashfile.Hash) write: %w", h, err)
		}

		return h.Sum(nil), nil
	}
}

func MD5HashFunc() HashFunc {
	return HashSumFunc(md5.New)
}

func SHA1HashFunc() HashFunc {
	return HashSumFunc(sha1.New)
}

// HashFuncByName picks a hash by its name, an empty name means md5
func HashFuncByName(name string) (HashFunc, error) {
	switch strings.ToLower(name) {
	case "", "md5":
		return MD5HashFunc(), nil
	case "sha1":
		return SHA1HashFunc(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrHashFuncNotFound, name)
	}
}
