package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdflayers/pdflayers/internal/config"
	"github.com/pdflayers/pdflayers/internal/layers"
)

type stubProcessor struct {
	out *layers.Layers
	err error
}

func (p stubProcessor) Process(data []byte) (*layers.Layers, error) {
	return p.out, p.err
}

func newTestServer(p Processor, apiKey string) *Server {
	cfg := config.Config{
		Port:           "0",
		APIKey:         apiKey,
		MaxUploadBytes: 1 << 20,
		ChunkSize:      512,
		ChunkOverlap:   50,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(p, log, cfg)
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestHandleProcess_Success(t *testing.T) {
	out := &layers.Layers{
		FullToc: layers.Doc{
			Content:  "Chapter 1: Full Document (Page 1)",
			Metadata: layers.Metadata{DocType: "toc_full"},
		},
		TocEntries: []layers.Doc{{
			Content:  "Chapter 1: Full Document (Starts on Page 1)",
			Metadata: layers.Metadata{DocType: "toc_entry", Chapter: "1"},
		}},
		Chunks: []layers.Doc{{
			Content:  "some text",
			Metadata: layers.Metadata{DocType: "chunk", Chapter: "1", ChapterTitle: "Full Document"},
		}},
	}
	srv := newTestServer(stubProcessor{out: out}, "")

	body, contentType := multipartBody(t, "file", "book.pdf", "%PDF-1.4 fake")
	req := httptest.NewRequest(http.MethodPost, "/api/process", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	for _, key := range []string{"layer1_full_toc_doc", "layer1_entry_docs", "layer3_chunks"} {
		if _, ok := got[key]; !ok {
			t.Errorf("response missing %q", key)
		}
	}
}

func TestHandleProcess_MissingFile(t *testing.T) {
	srv := newTestServer(stubProcessor{}, "")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("unrelated", "value")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/process", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "file is required") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestHandleProcess_UnsupportedExtension(t *testing.T) {
	srv := newTestServer(stubProcessor{}, "")

	body, contentType := multipartBody(t, "file", "notes.docx", "not a pdf")
	req := httptest.NewRequest(http.MethodPost, "/api/process", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "unsupported file type") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestHandleProcess_ProcessingFailure(t *testing.T) {
	srv := newTestServer(stubProcessor{err: errors.New("corrupt document")}, "")

	body, contentType := multipartBody(t, "file", "bad.pdf", "garbage")
	req := httptest.NewRequest(http.MethodPost, "/api/process", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "failed to process PDF") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestHandleProcess_AuthRequiredWhenKeyConfigured(t *testing.T) {
	srv := newTestServer(stubProcessor{}, "secret-key")

	body, contentType := multipartBody(t, "file", "book.pdf", "%PDF")
	req := httptest.NewRequest(http.MethodPost, "/api/process", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without bearer token, got %d", rec.Code)
	}
}

func TestHealth_AlwaysPublic(t *testing.T) {
	srv := newTestServer(stubProcessor{}, "secret-key")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"book.pdf", "book.pdf"},
		{"../../etc/passwd.pdf", "passwd.pdf"},
		{"dir/inner.pdf", "inner.pdf"},
		{".", "unnamed"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
