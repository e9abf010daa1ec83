package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// LocalStore resolves identifiers as file paths. Relative paths are taken from Root, or the working directory if Root is empty.
type LocalStore struct {
	Root string
}

// Fetch reads the file named by id.
func (s LocalStore) Fetch(ctx context.Context, id string) (Blob, error) {
	if err := ctx.Err(); err != nil {
		return Blob{}, err
	}
	if id == "" {
		return Blob{}, fmt.Errorf("blobstore: empty path: %w", ErrNotFound)
	}

	path := id
	if !filepath.IsAbs(path) && s.Root != "" {
		path = filepath.Join(s.Root, path)
	}

	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Blob{}, fmt.Errorf("read %s: %w", id, ErrNotFound)
		}
		return Blob{}, fmt.Errorf("read %s: %w", id, err)
	}
	if fi.IsDir() {
		return Blob{}, fmt.Errorf("read %s: is a directory", id)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Blob{}, fmt.Errorf("read %s: %w", id, err)
	}
	if !utf8.Valid(data) {
		return Blob{}, fmt.Errorf("read %s: not a UTF-8 text file", id)
	}

	return Blob{
		ID:         id,
		Name:       filepath.Base(path),
		Type:       "text",
		Size:       fi.Size(),
		UploadTime: fi.ModTime(),
		Content:    string(data),
	}, nil
}
