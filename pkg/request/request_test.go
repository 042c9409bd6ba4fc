package request_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-admingen/pkg/request"
)

func TestFromMapStringifiesValues(t *testing.T) {
	in := request.FromMap(map[string]any{
		"title":     "Hello",
		"views":     42,
		"published": true,
		"tags":      []string{"go", "admin"},
		"empty":     nil,
	})

	if got, _ := in.Value("views"); got != "42" {
		t.Fatalf("views = %q", got)
	}
	if got, _ := in.Value("published"); got != "true" {
		t.Fatalf("published = %q", got)
	}
	if diff := cmp.Diff([]string{"go", "admin"}, in.Values("tags")); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
	if in.Has("empty") {
		t.Fatalf("nil entries must be dropped")
	}
	if diff := cmp.Diff([]string{"published", "tags", "title", "views"}, in.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestFromValuesCopiesInput(t *testing.T) {
	values := url.Values{"title": {"one"}}
	in := request.FromValues(values)
	values.Set("title", "two")

	if got, _ := in.Value("title"); got != "one" {
		t.Fatalf("input must not alias caller values, got %q", got)
	}
}

func TestFromRequestURLEncoded(t *testing.T) {
	body := strings.NewReader("title=Hello&published=on")
	req := httptest.NewRequest(http.MethodPost, "/admin/posts?ref=list", body)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	in, err := request.FromRequest(req, 0)
	if err != nil {
		t.Fatalf("FromRequest: %v", err)
	}
	if got, _ := in.Value("title"); got != "Hello" {
		t.Fatalf("title = %q", got)
	}
	if !in.Has("ref") {
		t.Fatalf("query values must be visible")
	}
}

func TestFromRequestMultipart(t *testing.T) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("title", "With cover"); err != nil {
		t.Fatalf("WriteField: %v", err)
	}
	part, err := writer.CreateFormFile("cover", "cover.png")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := io.WriteString(part, "png-bytes"); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/admin/posts", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	in, err := request.FromRequest(req, 1<<20)
	if err != nil {
		t.Fatalf("FromRequest: %v", err)
	}
	header, ok := in.File("cover")
	if !ok || header.Filename != "cover.png" {
		t.Fatalf("expected cover upload, got %#v", header)
	}
	if got, _ := in.Value("title"); got != "With cover" {
		t.Fatalf("title = %q", got)
	}
	if _, ok := in.File("title"); ok {
		t.Fatalf("plain values are not files")
	}
}
