package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	cachePath  string
}

func setupCLITestEnv(t *testing.T, llmURL string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "config.yaml"),
		cachePath:  filepath.Join(base, "cache_transcripciones.json"),
	}
	if llmURL == "" {
		llmURL = "http://127.0.0.1:1"
	}
	content := fmt.Sprintf(`whisper:
  binary_path: %q
ffmpeg:
  binary_path: %q
llm:
  provider: ollama
  model: mistral
  base_url: %q
  retry_attempts: 1
  timeout_seconds: 5
cache:
  path: %q
paths:
  inbox: %q
  output: %q
  temp: %q
logging:
  level: error
`,
		filepath.Join(base, "bin", "whisper-cli"),
		filepath.Join(base, "bin", "ffmpeg"),
		llmURL,
		env.cachePath,
		filepath.Join(base, "inbox"),
		filepath.Join(base, "output"),
		filepath.Join(base, "tmp"),
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
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

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q to contain %q", haystack, needle)
	}
}
