package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"taskhub/internal/app/storage"
	"taskhub/internal/pkg/errs"
	"taskhub/internal/pkg/logx"
	"taskhub/internal/pkg/req"
	"taskhub/internal/pkg/resp"
)

// fileEntry is the /api/files response item.
type fileEntry struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	UploadDate time.Time `json:"uploadDate"`
	Type       string    `json:"type"`
}

// HandleUpload stores the single multipart "file" field and returns its path.
func HandleUpload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if customErr := req.SetupMultipart(w, r); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrNoFileUploaded))
			return
		}
		defer file.Close()

		filePath, err := deps.Files.Save(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
		if err != nil {
			logx.Error(err, "upload: save failed", "file_name", header.Filename)
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		resp.RespondJSON(w, r, http.StatusOK, map[string]any{
			"filePath": filePath,
		})
	}
}

// HandleListFiles lists stored uploads, optionally filtered by a
// case-insensitive name substring. A read failure degrades to an empty list,
// never a 5xx.
func HandleListFiles(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		search := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("search")))

		files, err := deps.Files.List(r.Context())
		if err != nil {
			logx.Error(err, "list files: read failed")
			files = nil
		}

		entries := make([]fileEntry, 0, len(files))
		for _, f := range files {
			if search != "" && !strings.Contains(strings.ToLower(f.Name), search) {
				continue
			}

			entries = append(entries, fileEntry{
				Name:       f.Name,
				Size:       f.Size,
				UploadDate: f.UploadDate,
				Type:       "file",
			})
		}

		resp.RespondJSON(w, r, http.StatusOK, map[string]any{
			"files": entries,
		})
	}
}

// HandleListImages lists stored uploads with known image extensions.
// A read failure degrades to an empty list, never a 5xx.
func HandleListImages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files, err := deps.Files.List(r.Context())
		if err != nil {
			logx.Error(err, "list images: read failed")
			files = nil
		}

		resp.RespondJSON(w, r, http.StatusOK, map[string]any{
			"images": storage.FilterImages(files),
		})
	}
}

// HandleServeUpload delivers a stored file from the uploads path.
func HandleServeUpload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps.Files.Serve(w, r, chi.URLParam(r, "name"))
	}
}
