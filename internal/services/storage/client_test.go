package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_Upload(t *testing.T) {
	t.Parallel()

	var gotPath, gotContentType, gotAuth string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "media", "storage-key")
	url, err := c.Upload(context.Background(), "2026/08/cover.webp", "image/webp", strings.NewReader("bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if gotPath != "/object/media/2026/08/cover.webp" {
		t.Errorf("upload path = %q", gotPath)
	}
	if gotContentType != "image/webp" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotAuth != "Bearer storage-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if string(gotBody) != "bytes" {
		t.Errorf("body = %q", gotBody)
	}
	if want := srv.URL + "/object/public/media/2026/08/cover.webp"; url != want {
		t.Errorf("url = %q, want %q", url, want)
	}
}

func TestClient_UploadErrorStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "media", "")
	if _, err := c.Upload(context.Background(), "x.png", "image/png", strings.NewReader("x")); err == nil {
		t.Fatal("expected error for 403 response")
	}
}

func TestClient_PublicURL(t *testing.T) {
	t.Parallel()

	c := NewClient("https://storage.example.com", "media", "")
	got := c.PublicURL("2026/08/plan.pdf")
	if got != "https://storage.example.com/object/public/media/2026/08/plan.pdf" {
		t.Errorf("PublicURL = %q", got)
	}
}
