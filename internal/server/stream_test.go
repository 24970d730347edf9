package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/handsign/internal/capture"
)

func TestStreamHandler(t *testing.T) {
	preview := capture.NewLatestJPEG()
	preview.Set([]byte("first-frame"))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	NewStreamHandler(preview).ServeHTTP(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "multipart/x-mixed-replace; boundary=frame" {
		t.Errorf("Content-Type = %q", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: 11\r\n\r\nfirst-frame\r\n") {
		t.Errorf("unexpected body %q", body)
	}
	if n := strings.Count(body, "--frame"); n != 1 {
		t.Errorf("expected 1 part, got %d", n)
	}
}

func TestStreamHandler_NoFrames(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	NewStreamHandler(capture.NewLatestJPEG()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "--frame") {
		t.Error("expected no parts without frames")
	}
}
