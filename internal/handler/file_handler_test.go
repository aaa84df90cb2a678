package handler_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
	"time"

	"taskhub/internal/app/chat"
	"taskhub/internal/app/storage"
	"taskhub/internal/configs"
	"taskhub/internal/handler"
)

type fileListBody struct {
	Files []struct {
		Name       string    `json:"name"`
		Size       int64     `json:"size"`
		UploadDate time.Time `json:"uploadDate"`
		Type       string    `json:"type"`
	} `json:"files"`
}

type imageListBody struct {
	Images []storage.FileInfo `json:"images"`
}

// uploadFile posts one multipart file under the "file" field and returns the
// stored path from the response.
func uploadFile(t *testing.T, env *testEnv, token, fileName, contents string) string {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := io.WriteString(part, contents); err != nil {
		t.Fatalf("write multipart part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	rec := env.do(t, http.MethodPost, "/api/upload", token, &buf, writer.FormDataContentType())
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d, want %d\nbody: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var body struct {
		FilePath string `json:"filePath"`
	}
	decodeBody(t, rec, &body)

	if body.FilePath == "" {
		t.Fatal("upload response filePath is empty")
	}
	return body.FilePath
}

func TestUploadStoresAndServesFile(t *testing.T) {
	env := newTestEnv(t)
	token := authToken(t)

	filePath := uploadFile(t, env, token, "notes.TXT", "remember the milk")

	if !strings.HasPrefix(filePath, "uploads/") {
		t.Errorf("filePath = %q, want an uploads/ path", filePath)
	}
	if !strings.HasSuffix(filePath, ".txt") {
		t.Errorf("filePath = %q, want the lowercased original extension", filePath)
	}

	rec := env.do(t, http.MethodGet, "/"+filePath, "", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("serve status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got != "remember the milk" {
		t.Errorf("served contents = %q, want %q", got, "remember the milk")
	}
}

func TestUploadRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/upload", "", strings.NewReader("ignored"), "multipart/form-data")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestUploadWithoutFileField(t *testing.T) {
	env := newTestEnv(t)
	token := authToken(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("note", "no file here"); err != nil {
		t.Fatalf("WriteField: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	rec := env.do(t, http.MethodPost, "/api/upload", token, &buf, writer.FormDataContentType())
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d\nbody: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
}

func TestListFilesWithSearch(t *testing.T) {
	env := newTestEnv(t)
	token := authToken(t)

	uploadFile(t, env, token, "report.pdf", "pdf bytes")
	time.Sleep(2 * time.Millisecond) // stored names derive from the upload time
	uploadFile(t, env, token, "photo.png", "png bytes")

	rec := env.do(t, http.MethodGet, "/api/files", "", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body fileListBody
	decodeBody(t, rec, &body)

	if len(body.Files) != 2 {
		t.Fatalf("files = %d entries, want 2", len(body.Files))
	}
	for _, f := range body.Files {
		if f.Type != "file" {
			t.Errorf("entry type = %q, want %q", f.Type, "file")
		}
		if f.Size == 0 {
			t.Errorf("entry %q has zero size", f.Name)
		}
	}

	rec = env.do(t, http.MethodGet, "/api/files?search=.PNG", "", nil, "")

	var filtered fileListBody
	decodeBody(t, rec, &filtered)

	if len(filtered.Files) != 1 {
		t.Fatalf("filtered files = %d entries, want 1", len(filtered.Files))
	}
	if !strings.HasSuffix(filtered.Files[0].Name, ".png") {
		t.Errorf("filtered entry = %q, want a .png name", filtered.Files[0].Name)
	}
}

func TestListImagesFiltersByExtension(t *testing.T) {
	env := newTestEnv(t)
	token := authToken(t)

	uploadFile(t, env, token, "notes.txt", "text")
	time.Sleep(2 * time.Millisecond)
	uploadFile(t, env, token, "photo.JPG", "jpeg bytes")

	rec := env.do(t, http.MethodGet, "/api/images", "", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body imageListBody
	decodeBody(t, rec, &body)

	if len(body.Images) != 1 {
		t.Fatalf("images = %d entries, want 1", len(body.Images))
	}
	if !strings.HasSuffix(body.Images[0].Name, ".jpg") {
		t.Errorf("image entry = %q, want a .jpg name", body.Images[0].Name)
	}
}

// brokenFileStore fails every listing, standing in for an unreadable upload
// directory.
type brokenFileStore struct{}

func (brokenFileStore) Save(context.Context, string, string, io.Reader) (string, error) {
	return "", errors.New("disk full")
}

func (brokenFileStore) List(context.Context) ([]storage.FileInfo, error) {
	return nil, errors.New("unreadable directory")
}

func (brokenFileStore) Serve(w http.ResponseWriter, _ *http.Request, _ string) {
	http.Error(w, "unavailable", http.StatusInternalServerError)
}

func TestListingsDegradeToEmptyOnStorageFailure(t *testing.T) {
	hub := chat.NewHub()
	go hub.Run()
	t.Cleanup(hub.Shutdown)

	env := &testEnv{
		accounts: newFakeAccountStore(),
		tasks:    newFakeTaskStore(),
		files:    brokenFileStore{},
	}
	env.router = handler.Router(&handler.AppDeps{
		Config: &configs.AppConfig{
			Environment:     "development",
			DefaultPageSize: 10,
			JWTSecret:       testJWTSecret,
			StorageBackend:  configs.StorageBackendLocal,
		},
		Hub:      hub,
		Accounts: env.accounts,
		Tasks:    env.tasks,
		Files:    env.files,
	})

	rec := env.do(t, http.MethodGet, "/api/files", "", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("files status = %d, want %d", rec.Code, http.StatusOK)
	}

	var files fileListBody
	decodeBody(t, rec, &files)
	if len(files.Files) != 0 {
		t.Errorf("files = %d entries, want 0", len(files.Files))
	}

	rec = env.do(t, http.MethodGet, "/api/images", "", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("images status = %d, want %d", rec.Code, http.StatusOK)
	}

	var images imageListBody
	decodeBody(t, rec, &images)
	if len(images.Images) != 0 {
		t.Errorf("images = %d entries, want 0", len(images.Images))
	}
}
