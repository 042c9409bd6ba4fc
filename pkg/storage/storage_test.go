package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-admingen/pkg/storage"
)

// upload builds a parsed multipart file header.
func upload(t *testing.T, field, name, body string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, name)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := io.WriteString(part, body); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("ParseMultipartForm: %v", err)
	}
	return req.MultipartForm.File[field][0]
}

func TestLocalStoreAndDelete(t *testing.T) {
	root := t.TempDir()
	local := storage.NewLocal(root, "https://cdn.example.com/uploads/")
	ctx := context.Background()

	stored, err := local.Store(ctx, upload(t, "cover", "Cover.PNG", "png-bytes"), "posts")
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if !strings.HasPrefix(stored, "posts/") || !strings.HasSuffix(stored, ".png") {
		t.Fatalf("unexpected stored path %q", stored)
	}

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(stored)))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("stored content = %q", data)
	}
	if got := local.URL(stored); got != "https://cdn.example.com/uploads/"+stored {
		t.Fatalf("URL = %q", got)
	}

	second, err := local.Store(ctx, upload(t, "cover", "Cover.PNG", "other"), "posts")
	if err != nil {
		t.Fatalf("second Store: %v", err)
	}
	if second == stored {
		t.Fatalf("uploads with the same name must not collide")
	}

	if err := local.Delete(ctx, stored); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(stored))); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, stat err = %v", err)
	}
	if err := local.Delete(ctx, stored); err != nil {
		t.Fatalf("deleting a missing file must succeed: %v", err)
	}
}

func TestLocalRejectsEscapes(t *testing.T) {
	local := storage.NewLocal(t.TempDir(), "")
	if err := local.Delete(context.Background(), "../../etc/passwd"); !errors.Is(err, storage.ErrOutsideRoot) {
		t.Fatalf("expected ErrOutsideRoot, got %v", err)
	}
	if got := local.URL("posts/a.png"); got != "/posts/a.png" {
		t.Fatalf("URL without base = %q", got)
	}
}
