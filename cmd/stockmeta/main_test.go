package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"stockmeta/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	mediaDir   string
	server     *httptest.Server

	mu   sync.Mutex
	keys []string
}

func unsetEnv(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		t.Setenv(name, "")
		_ = os.Unsetenv(name)
	}
}

func setupCLITestEnv(t *testing.T, apiKeys string) *cliTestEnv {
	t.Helper()
	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("NO_COLOR", "1")
	unsetEnv(t, "API_KEYS", "API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY", "OPENAI_API_KEY", "STOCKMETA_PROVIDER", "STOCKMETA_MODEL")

	env := &cliTestEnv{baseDir: base, mediaDir: filepath.Join(base, "media")}
	env.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.mu.Lock()
		env.keys = append(env.keys, r.Header.Get("x-goog-api-key"))
		env.mu.Unlock()
		reply := map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": testsupport.Reply("Sunny beach", "Waves on sand", "beach, sand, summer", "11")}},
				},
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(reply)
	}))
	t.Cleanup(env.server.Close)

	env.configPath = filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[provider]
name = "gemini"
gemini_base_url = "%s/"

[credentials]
api_keys = [%s]

[paths]
state_dir = "%s"

[logging]
level = "error"
`, env.server.URL, apiKeys, filepath.Join(base, "state"))
	testsupport.WriteFile(t, env.configPath, content)

	testsupport.WritePNG(t, filepath.Join(env.mediaDir, "beach.png"), 64, 32, color.NRGBA{R: 240, G: 200, B: 120, A: 255})
	testsupport.WriteFile(t, filepath.Join(env.mediaDir, "beach.svg"), "<svg/>")
	return env
}

func (e *cliTestEnv) requestKeys() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.keys...)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestProcessExportAndHistory(t *testing.T) {
	env := setupCLITestEnv(t, `"k1", "k2"`)

	out, _, err := runCLI(t, []string{"process", env.mediaDir, "--targets", "freepik,adobestock"}, env.configPath)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	requireContains(t, out, "beach.png")
	requireContains(t, out, "Landscapes")
	requireContains(t, out, "1 processed, 0 already processed, 0 failed")
	requireContains(t, out, "1 linked")
	requireContains(t, out, "into 2 files")
	if keys := env.requestKeys(); len(keys) != 1 || keys[0] != "k1" {
		t.Fatalf("unexpected request keys %v", keys)
	}

	entries, err := os.ReadDir(env.mediaDir)
	if err != nil {
		t.Fatalf("read media dir: %v", err)
	}
	var exports []string
	for _, entry := range entries {
		if strings.Contains(entry.Name(), "_metadata_") && !strings.HasPrefix(entry.Name(), "adobe_metadata_") {
			exports = append(exports, entry.Name())
		}
	}
	if len(exports) != 2 {
		t.Fatalf("expected freepik and adobestock exports, got %v", exports)
	}

	out, _, err = runCLI(t, []string{"process", env.mediaDir, "--no-export"}, env.configPath)
	if err != nil {
		t.Fatalf("second process: %v", err)
	}
	requireContains(t, out, "0 processed, 1 already processed, 0 failed")
	if keys := env.requestKeys(); len(keys) != 1 {
		t.Fatalf("second run must not call the provider, keys=%v", keys)
	}

	out, _, err = runCLI(t, []string{"export", env.mediaDir, "--targets", "dreamstime", "--stem", "batch"}, env.configPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	requireContains(t, out, "2 rows from row store into 1 files")
	data, err := os.ReadFile(filepath.Join(env.mediaDir, "dreamstime_metadata_batch.csv"))
	if err != nil {
		t.Fatalf("read dreamstime export: %v", err)
	}
	if !bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		t.Fatal("expected UTF-8 BOM on export")
	}
	requireContains(t, string(data), "beach.svg,Sunny beach")

	out, _, err = runCLI(t, []string{"history", "--limit", "10"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "beach.png")
	requireContains(t, out, "skip-processed")
	requireContains(t, out, "gemini")
}

func TestProcessUnknownTargetFails(t *testing.T) {
	env := setupCLITestEnv(t, `"k1"`)
	out, _, err := runCLI(t, []string{"process", env.mediaDir, "--targets", "shutterstock"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for unknown target")
	}
	requireContains(t, err.Error(), "available: adobestock, dreamstime, freepik")
	requireContains(t, out, "Export pass")
}

func TestProcessDryRun(t *testing.T) {
	env := setupCLITestEnv(t, `"k1"`)
	out, _, err := runCLI(t, []string{"process", env.mediaDir, "--dry-run"}, env.configPath)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	requireContains(t, out, "link only")
	requireContains(t, out, "1 files would be sent to the provider")
	if keys := env.requestKeys(); len(keys) != 0 {
		t.Fatalf("dry run called the provider: %v", keys)
	}
	if _, err := os.Stat(filepath.Join(env.mediaDir, "processed_files.txt")); !os.IsNotExist(err) {
		t.Fatalf("dry run wrote the ledger, stat err=%v", err)
	}
}

func TestEnvFileSuppliesKeys(t *testing.T) {
	env := setupCLITestEnv(t, "")
	envFile := filepath.Join(env.baseDir, "keys.env")
	testsupport.WriteFile(t, envFile, "API_KEYS=env-key-1,env-key-2\n")

	if _, _, err := runCLI(t, []string{"--env-file", envFile, "process", env.mediaDir, "--no-export"}, env.configPath); err != nil {
		t.Fatalf("process: %v", err)
	}
	if keys := env.requestKeys(); len(keys) != 1 || keys[0] != "env-key-1" {
		t.Fatalf("expected key from env file, got %v", keys)
	}
}

func TestProcessWithoutKeysFails(t *testing.T) {
	env := setupCLITestEnv(t, "")
	_, _, err := runCLI(t, []string{"process", env.mediaDir}, env.configPath)
	if err == nil {
		t.Fatal("expected missing credentials error")
	}
	requireContains(t, err.Error(), "no credentials")
}

func TestCategoriesCommand(t *testing.T) {
	out, _, err := runCLI(t, []string{"categories"}, "")
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	requireContains(t, out, "Animals")
	requireContains(t, out, "Travel")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t, `"k1"`)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "gemini-2.5-flash")

	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config exists without --overwrite")
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, "adobestock, freepik, dreamstime")
}

func TestRejectsConflictingExportFlags(t *testing.T) {
	env := setupCLITestEnv(t, `"k1"`)
	_, _, err := runCLI(t, []string{"process", env.mediaDir, "--export-only", "--no-export"}, env.configPath)
	if err == nil {
		t.Fatal("expected flag conflict error")
	}
}
