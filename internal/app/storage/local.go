package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"taskhub/internal/pkg/logx"
)

// localStore keeps uploads on the local filesystem under dir.
type localStore struct {
	dir string
}

func newLocalStore(dir string) (*localStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %q: %w", dir, err)
	}

	return &localStore{dir: dir}, nil
}

func (s *localStore) Save(ctx context.Context, originalName, contentType string, r io.Reader) (string, error) {
	name := storedName(originalName, time.Now())

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	return path.Join("uploads", name), nil
}

func (s *localStore) List(ctx context.Context) ([]FileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload directory: %w", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			logx.Warn("Skipping unreadable upload entry", "name", entry.Name(), "error", err)
			continue
		}

		files = append(files, FileInfo{
			Name:       info.Name(),
			Size:       info.Size(),
			UploadDate: info.ModTime(),
		})
	}

	return files, nil
}

func (s *localStore) Serve(w http.ResponseWriter, r *http.Request, name string) {
	// Base strips any path traversal attempt from the requested name.
	http.ServeFile(w, r, filepath.Join(s.dir, filepath.Base(name)))
}
