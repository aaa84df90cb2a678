/*
Package storage abstracts where uploaded files live.

The local backend keeps files on disk under the upload directory and serves
them directly; the S3 backend stores objects in an S3-compatible bucket and
serves them through presigned redirects. Both present the same FileStore
interface to the handlers.
*/
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

// Backend selectors.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// FileInfo describes one stored upload.
type FileInfo struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	UploadDate time.Time `json:"uploadDate"`
}

// Config holds the settings for constructing a FileStore.
type Config struct {
	Backend   string
	UploadDir string

	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// FileStore is the storage interface the upload and browsing handlers depend on.
type FileStore interface {
	// Save stores the upload under a timestamp-derived name that keeps the
	// original extension, returning the public path of the stored file.
	Save(ctx context.Context, originalName, contentType string, r io.Reader) (string, error)

	// List enumerates stored files. Implementations skip entries they cannot
	// stat rather than failing the whole listing.
	List(ctx context.Context) ([]FileInfo, error)

	// Serve delivers the named file over HTTP, either directly or by redirect.
	Serve(w http.ResponseWriter, r *http.Request, name string)
}

// NewFileStore constructs the FileStore selected by cfg.Backend.
func NewFileStore(cfg Config) (FileStore, error) {
	switch cfg.Backend {
	case BackendLocal:
		return newLocalStore(cfg.UploadDir)
	case BackendS3:
		return newS3Store(cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// storedName derives the stored file name from the upload time and the
// original extension, mirroring the public upload naming scheme.
func storedName(originalName string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	return fmt.Sprintf("%d%s", now.UnixMilli(), ext)
}

// imageExtensions are the file extensions the gallery treats as images.
var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".bmp":  {},
	".webp": {},
}

// IsImage reports whether the file name carries a known image extension.
func IsImage(name string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// FilterImages returns only the entries whose names look like images.
func FilterImages(files []FileInfo) []FileInfo {
	images := make([]FileInfo, 0, len(files))
	for _, f := range files {
		if IsImage(f.Name) {
			images = append(images, f)
		}
	}
	return images
}
