package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"stockmeta/internal/config"
)

func writeJPEG(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upload.jpg")
	if err := os.WriteFile(path, []byte{0xFF, 0xD8, 0xFF, 0xD9}, 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	return path
}

func TestPromptListsCategoriesAndFormat(t *testing.T) {
	for _, want := range []string{"1: 'Animals'", "21: 'Travel'", "<CATEGORY_ID>", "40 to 49", "160 characters"} {
		if !strings.Contains(Prompt(), want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestNewSelectsBackend(t *testing.T) {
	cfg := config.Default().Provider
	gw, err := New(cfg)
	if err != nil || gw.Name() != config.ProviderGemini {
		t.Fatalf("expected gemini gateway, got %v %v", gw, err)
	}
	cfg.Name = "openai"
	gw, err = New(cfg)
	if err != nil || gw.Name() != config.ProviderOpenAI {
		t.Fatalf("expected openai gateway, got %v %v", gw, err)
	}
	cfg.Name = "claude"
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestGeminiGenerate(t *testing.T) {
	var gotKey, gotPath string
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"<TITLE>Bay</TITLE>"},{"text":"<CATEGORY_ID>11</CATEGORY_ID>"}]},"finishReason":"STOP"}]}`)
	}))
	defer srv.Close()

	gw := NewGemini(Settings{BaseURL: srv.URL + "/", Timeout: 5 * time.Second})
	text, err := gw.Generate(context.Background(), "key-1", "gemini-test", writeJPEG(t))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "<TITLE>Bay</TITLE><CATEGORY_ID>11</CATEGORY_ID>" {
		t.Fatalf("unexpected text %q", text)
	}
	if gotKey != "key-1" {
		t.Fatalf("expected api key header, got %q", gotKey)
	}
	if !strings.Contains(gotPath, "gemini-test:generateContent") {
		t.Fatalf("unexpected path %q", gotPath)
	}
	encoded, _ := json.Marshal(body)
	for _, want := range []string{"inlineData", "image/jpeg", "systemInstruction", "CATEGORY_ID"} {
		if !strings.Contains(string(encoded), want) {
			t.Fatalf("request body missing %q: %s", want, encoded)
		}
	}
}

func TestGeminiRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(w, `{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`)
			return
		}
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`)
	}))
	defer srv.Close()

	gw := NewGemini(Settings{BaseURL: srv.URL + "/", MaxRetries: 2})
	var slept []time.Duration
	gw.retry.sleeper = func(d time.Duration) { slept = append(slept, d) }

	text, err := gw.Generate(context.Background(), "k", "m", writeJPEG(t))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "ok" || calls.Load() != 2 || len(slept) != 1 {
		t.Fatalf("unexpected result text=%q calls=%d sleeps=%v", text, calls.Load(), slept)
	}
}

func TestGeminiFailureIsCallError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`)
	}))
	defer srv.Close()

	gw := NewGemini(Settings{BaseURL: srv.URL + "/", MaxRetries: 3})
	gw.retry.sleeper = func(time.Duration) { t.Fatal("403 must not be retried") }
	_, err := gw.Generate(context.Background(), "bad", "m", writeJPEG(t))
	var callErr *CallError
	if !errors.As(err, &callErr) || callErr.Provider != config.ProviderGemini {
		t.Fatalf("expected gemini CallError, got %v", err)
	}
	if !errors.Is(err, ErrCall) {
		t.Fatalf("expected ErrCall marker, got %v", err)
	}
}

func TestGenerateMissingImage(t *testing.T) {
	for _, gw := range []Gateway{NewGemini(Settings{}), NewOpenAI(Settings{})} {
		_, err := gw.Generate(context.Background(), "k", "", filepath.Join(t.TempDir(), "missing.jpg"))
		if !errors.Is(err, ErrCall) {
			t.Fatalf("%s: expected ErrCall for missing image, got %v", gw.Name(), err)
		}
	}
}

func TestOpenAIGenerate(t *testing.T) {
	var gotAuth, gotPath string
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"resp_1","object":"response","status":"completed","output":[{"type":"message","id":"msg_1","role":"assistant","status":"completed","content":[{"type":"output_text","text":"<TITLE>Dunes</TITLE>","annotations":[]}]}]}`)
	}))
	defer srv.Close()

	gw := NewOpenAI(Settings{BaseURL: srv.URL + "/"})
	text, err := gw.Generate(context.Background(), "sk-test", "gpt-test", writeJPEG(t))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "<TITLE>Dunes</TITLE>" {
		t.Fatalf("unexpected text %q", text)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if !strings.HasSuffix(gotPath, "/responses") {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if body["model"] != "gpt-test" {
		t.Fatalf("unexpected model %v", body["model"])
	}
	encoded, _ := json.Marshal(body)
	for _, want := range []string{"input_image", "data:image/jpeg;base64,/9j/2Q==", "input_text", "instructions"} {
		if !strings.Contains(string(encoded), want) {
			t.Fatalf("request body missing %q: %s", want, encoded)
		}
	}
}

func TestOpenAILegacyShapeFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"resp_2","object":"response","output":[],"choices":[{"message":{"content":"<TITLE>Legacy</TITLE>"}}]}`)
	}))
	defer srv.Close()

	text, err := NewOpenAI(Settings{BaseURL: srv.URL + "/"}).Generate(context.Background(), "k", "m", writeJPEG(t))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "<TITLE>Legacy</TITLE>" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestOpenAIEmptyReplyIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"resp_3","object":"response","output":[]}`)
	}))
	defer srv.Close()

	text, err := NewOpenAI(Settings{BaseURL: srv.URL + "/"}).Generate(context.Background(), "k", "m", writeJPEG(t))
	if err != nil || text != "" {
		t.Fatalf("expected empty text without error, got %q %v", text, err)
	}
}

func TestOpenAIFailureIsCallError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"Incorrect API key","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	_, err := NewOpenAI(Settings{BaseURL: srv.URL + "/"}).Generate(context.Background(), "k", "m", writeJPEG(t))
	var callErr *CallError
	if !errors.As(err, &callErr) || callErr.Provider != config.ProviderOpenAI {
		t.Fatalf("expected openai CallError, got %v", err)
	}
}
