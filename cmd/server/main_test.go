package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eletters/backend/internal/config"
	"github.com/eletters/backend/internal/testutil"
)

func getTestConfig() *config.Config {
	return &config.Config{
		Environment:       "test",
		S3Endpoint:        "http://localhost:9000",
		S3Region:          "us-east-1",
		S3AccessKey:       "test-access",
		S3SecretKey:       "test-secret",
		AttachmentsBucket: "letters-attachments",
		VoiceBucket:       "voice-messages",
		Port:              "8080",
		Timezone:          "UTC",
	}
}

func TestHandleRoot(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	handleRoot(w, req)

	res := w.Result()
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			t.Fatalf("failed to close response body: %v", err)
		}
	}(res.Body)

	if res.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", res.StatusCode)
	}

	contentType := res.Header.Get("Content-Type")
	if contentType != "text/plain" {
		t.Errorf("expected Content-Type 'text/plain', got '%s'", contentType)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}

	expected := "e-Letters API is running"
	if string(body) != expected {
		t.Errorf("expected body '%s', got '%s'", expected, string(body))
	}
}

func TestNewServer(t *testing.T) {
	pool := testutil.NewTestDB(t)
	defer pool.Close()

	server := NewServer(getTestConfig(), pool, testutil.NewMemBlobStore())

	if server == nil {
		t.Fatal("NewServer() returned nil")
	}

	t.Run("serves the root route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		res := w.Result()
		defer func() { _ = res.Body.Close() }()

		if res.StatusCode != http.StatusOK {
			t.Errorf("expected status 200, got %d", res.StatusCode)
		}

		body, err := io.ReadAll(res.Body)
		if err != nil {
			t.Fatalf("failed to read response body: %v", err)
		}

		if string(body) != "e-Letters API is running" {
			t.Errorf("unexpected body '%s'", string(body))
		}
	})

	t.Run("letters routes require authentication", func(t *testing.T) {
		for _, path := range []string{"/api/v1/letters", "/api/v1/letters/some-id", "/api/v1/participants"} {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			w := httptest.NewRecorder()

			server.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected status 401 for %s, got %d", path, w.Code)
			}
		}
	})

	t.Run("rejects unsupported methods on the letters collection", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/letters", nil)
		req.Header.Set("Authorization", "Bearer some-principal")
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status 405, got %d", w.Code)
		}
	})
}
