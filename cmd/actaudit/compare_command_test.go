package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	fakeFFmpeg = `#!/bin/sh
for arg; do last="$arg"; done
printf 'RIFF' > "$last"
`
	fakeWhisper = `#!/bin/sh
while [ $# -gt 0 ]; do
  if [ "$1" = "-of" ]; then shift; out="$1"; fi
  shift
done
printf 'se aprueba\nel presupuesto\n' > "$out.txt"
`
	fakeAnalysis = "## 7) Conclusión\nFidelidad estimada: 85%"
)

func writeScript(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
}

// newOllamaStub answers refinement and comparison prompts and counts chat calls.
func newOllamaStub(t *testing.T, chats *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[{"name":"mistral:latest"}]}`))
		case "/api/chat":
			atomic.AddInt32(chats, 1)
			var req struct {
				Messages []struct {
					Content string `json:"content"`
				} `json:"messages"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			reply := fakeAnalysis
			if strings.Contains(req.Messages[0].Content, "Reescribe el texto") {
				reply = "Se aprueba el presupuesto."
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"message": map[string]any{"role": "assistant", "content": reply},
				"done":    true,
			})
		default:
			http.NotFound(w, r)
		}
	}))
}

func writeInputs(t *testing.T, env *cliTestEnv) (string, string) {
	t.Helper()
	audio := filepath.Join(env.baseDir, "reunion.mp3")
	require.NoError(t, os.WriteFile(audio, []byte("ID3 audio"), 0o644))

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	doc.AddPage()
	doc.Cell(40, 10, "Acta del Pleno")
	minutes := filepath.Join(env.baseDir, "acta.pdf")
	require.NoError(t, doc.OutputFileAndClose(minutes))
	return audio, minutes
}

func TestCompareCommand(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("sh not available")
	}

	var chats int32
	srv := newOllamaStub(t, &chats)
	defer srv.Close()

	env := setupCLITestEnv(t, srv.URL)
	writeScript(t, filepath.Join(env.baseDir, "bin", "ffmpeg"), fakeFFmpeg)
	writeScript(t, filepath.Join(env.baseDir, "bin", "whisper-cli"), fakeWhisper)
	audio, minutes := writeInputs(t, env)

	outPath := filepath.Join(env.baseDir, "report.md")
	bundleDir := filepath.Join(env.baseDir, "bundle")

	out, _, err := runCLI(t, []string{
		"compare", "--audio", audio, "--minutes", minutes, "--model", "base",
		"--out", outPath, "--save-all", bundleDir,
	}, env.configPath)
	require.NoError(t, err)

	requireContains(t, out, "Transcript\n==========\nSe aprueba el presupuesto.")
	requireContains(t, out, "Minutes\n=======\n")
	requireContains(t, strings.ReplaceAll(out, " ", ""), "ActadelPleno")
	requireContains(t, out, "Analysis\n========\n"+fakeAnalysis)
	requireContains(t, out, "Estimated fidelity: 85%")
	requireContains(t, out, "Report saved: "+outPath)
	assert.Equal(t, int32(2), atomic.LoadInt32(&chats), "refine and compare")

	report, err := os.ReadFile(outPath)
	require.NoError(t, err)
	lines := strings.Split(string(report), "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, "# Análisis de Reunión vs Acta", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Fecha: "), lines[1])
	assert.Equal(t, "---", lines[3])
	assert.True(t, strings.HasSuffix(string(report), fakeAnalysis))

	files, err := os.ReadDir(bundleDir)
	require.NoError(t, err)
	require.Len(t, files, 3)
	stamps := map[string]bool{}
	for _, f := range files {
		name := strings.TrimSuffix(f.Name(), filepath.Ext(f.Name()))
		stamps[name[len(name)-len("20060102_150405"):]] = true
	}
	assert.Len(t, stamps, 1, "bundle files share one timestamp: %v", files)

	// The raw transcript is now cached; a second run skips whisper.
	require.NoError(t, os.Remove(filepath.Join(env.baseDir, "bin", "whisper-cli")))
	out, _, err = runCLI(t, []string{"compare", "--audio", audio, "--minutes", minutes, "--model", "base"}, env.configPath)
	require.NoError(t, err)
	requireContains(t, out, "(transcript loaded from cache)")
}
