package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/actaudit/internal/llm"
	"github.com/nguyentantai21042004/actaudit/internal/pipeline"
	"github.com/nguyentantai21042004/actaudit/internal/report"
)

func TestCacheListAndClear(t *testing.T) {
	env := setupCLITestEnv(t, "")

	out, _, err := runCLI(t, []string{"cache", "list"}, env.configPath)
	require.NoError(t, err)
	requireContains(t, out, "Cache is empty")

	data := `{"5d41402abc4b2a76b9719d911017c592_small": "hola mundo"}`
	require.NoError(t, os.WriteFile(env.cachePath, []byte(data), 0o644))

	out, _, err = runCLI(t, []string{"cache", "list"}, env.configPath)
	require.NoError(t, err)
	requireContains(t, out, "5d41402abc4b2a76b9719d911017c592")
	requireContains(t, out, "small")
	requireContains(t, out, "1 cached transcript(s)")

	out, _, err = runCLI(t, []string{"cache", "clear"}, env.configPath)
	require.NoError(t, err)
	requireContains(t, out, "Cache cleared successfully")
	assert.NoFileExists(t, env.cachePath)

	out, _, err = runCLI(t, []string{"cache", "clear"}, env.configPath)
	require.NoError(t, err)
	requireContains(t, out, "No cache to clear")
}

func TestExplicitMissingConfig(t *testing.T) {
	_, _, err := runCLI(t, []string{"cache", "list"}, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCheckCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"models":[{"name":"mistral:latest"}]}`))
	}))
	defer srv.Close()

	env := setupCLITestEnv(t, srv.URL)
	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	require.NoError(t, err)
	requireContains(t, out, "not found in PATH")
	requireContains(t, out, "OK    llm ollama/mistral")
}

func TestCheckCommandUnavailable(t *testing.T) {
	env := setupCLITestEnv(t, "")
	_, _, err := runCLI(t, []string{"check"}, env.configPath)
	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrUnavailable))
	requireContains(t, err.Error(), "ollama pull mistral")
}

func TestCompareRequiresInputs(t *testing.T) {
	env := setupCLITestEnv(t, "")
	_, _, err := runCLI(t, []string{"compare", "--audio", "reunion.mp3"}, env.configPath)
	require.Error(t, err)
	requireContains(t, err.Error(), "minutes")
}

func TestCompareRejectsBadOptions(t *testing.T) {
	env := setupCLITestEnv(t, "")

	_, _, err := runCLI(t, []string{"compare", "--audio", "a.mp3", "--minutes", "a.pdf", "--out", "informe.html"}, env.configPath)
	assert.ErrorIs(t, err, report.ErrUnsupportedFormat)

	_, _, err = runCLI(t, []string{"compare", "--audio", "a.mp3", "--minutes", "a.pdf", "--model", "huge"}, env.configPath)
	require.Error(t, err)
	requireContains(t, err.Error(), "huge")
}

func TestProgressPrinterPlain(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressPrinter(&buf)
	assert.False(t, p.tty)

	p.handle(pipeline.Event{Index: 1, Total: 4, Message: "Transcribing audio with Whisper..."})
	p.handle(pipeline.Event{Message: "Process completed successfully!", Done: true})

	assert.Equal(t, "[1/4] Transcribing audio with Whisper...\nProcess completed successfully!\n", buf.String())
}

func TestProgressPrinterTerminal(t *testing.T) {
	var buf bytes.Buffer
	p := &progressPrinter{out: &buf, tty: true}

	p.handle(pipeline.Event{Index: 1, Total: 4, Message: "long message"})
	p.handle(pipeline.Event{Index: 2, Total: 4, Message: "short", Done: true})

	assert.Equal(t, "\r[1/4] long message\r[2/4] short       \n", buf.String())
}

func TestFormatEventError(t *testing.T) {
	got := formatEvent(pipeline.Event{Message: "Process failed", Done: true, Err: errors.New("boom")})
	assert.Equal(t, "Process failed: boom", got)
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"x"}}, []columnAlignment{alignLeft, alignRight})
	requireContains(t, out, "A")
	requireContains(t, out, "x")
	assert.Empty(t, renderTable(nil, nil, nil))
}
