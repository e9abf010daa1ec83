// Package blobstore fetches text blob revisions for diffing, either from a remote repository API (Client) or from disk (LocalStore), optionally through a Redis
// cache (CachedFetcher).
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrNotFound     = errors.New("blobstore: blob not found")
	ErrInvalidQuery = errors.New("blobstore: invalid query")
)

// Blob is one revision of a text blob.
type Blob struct {
	ID           string
	Name         string
	Type         string
	Size         int64
	UploadTime   time.Time
	LatestConfig string
	Content      string
}

// Fetcher resolves an identifier to a Blob.
type Fetcher interface {
	Fetch(ctx context.Context, id string) (Blob, error)
}

// APIError is a non-2xx response from the repository API. errors.Is(err, ErrNotFound) matches 404 and errors.Is(err, ErrInvalidQuery) matches 400.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("blobstore: api status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("blobstore: api status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrInvalidQuery:
		return e.StatusCode == http.StatusBadRequest
	}
	return false
}
