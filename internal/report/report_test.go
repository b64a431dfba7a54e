package report

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/actaudit/internal/pipeline"
)

const sampleAnalysis = `## 1. Resumen de la reunión
Se aprobó el presupuesto.

- **Coincidencia**: presupuesto
Fidelidad estimada: 85%`

func newTestExporter() *implExporter {
	e := New("es").(*implExporter)
	e.now = func() time.Time { return time.Date(2024, 3, 5, 9, 7, 30, 0, time.UTC) }
	return e
}

func TestSaveText(t *testing.T) {
	e := newTestExporter()
	dir := t.TempDir()

	for _, name := range []string{"informe.txt", "informe.md"} {
		path := filepath.Join(dir, name)
		require.NoError(t, e.Save(path, sampleAnalysis))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		lines := strings.Split(string(data), "\n")
		assert.Equal(t, "# Análisis de Reunión vs Acta", lines[0])
		assert.Equal(t, "Fecha: 05/03/2024 09:07", lines[1])
		assert.Equal(t, "---", lines[3])
		assert.True(t, strings.HasSuffix(string(data), "Fidelidad estimada: 85%"))
	}
}

func TestSavePDF(t *testing.T) {
	e := newTestExporter()
	path := filepath.Join(t.TempDir(), "sub", "informe.PDF")

	require.NoError(t, e.Save(path, sampleAnalysis))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
}

func TestSaveDocx(t *testing.T) {
	e := newTestExporter()
	path := filepath.Join(t.TempDir(), "informe.docx")

	require.NoError(t, e.Save(path, sampleAnalysis))

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	var found bool
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			found = true
		}
	}
	assert.True(t, found, "docx should contain word/document.xml")
}

func TestSaveErrors(t *testing.T) {
	e := newTestExporter()
	dir := t.TempDir()

	err := e.Save(filepath.Join(dir, "informe.pdf"), "  \n ")
	assert.True(t, errors.Is(err, ErrEmptyReport))

	err = e.Save(filepath.Join(dir, "informe.html"), sampleAnalysis)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.NoFileExists(t, filepath.Join(dir, "informe.html"))
}

func TestSaveAll(t *testing.T) {
	e := newTestExporter()
	dir := filepath.Join(t.TempDir(), "out")

	b, err := e.SaveAll(dir, &pipeline.Result{
		Transcript: "texto refinado",
		Minutes:    "",
		Analysis:   sampleAnalysis,
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "transcripcion_20240305_090730.txt"), b.TranscriptPath)
	assert.Equal(t, filepath.Join(dir, "pdf_extraido_20240305_090730.txt"), b.MinutesPath)
	assert.Equal(t, filepath.Join(dir, "analisis_20240305_090730.pdf"), b.AnalysisPath)

	transcript, err := os.ReadFile(b.TranscriptPath)
	require.NoError(t, err)
	assert.Equal(t, "=== TRANSCRIPCIÓN DEL AUDIO (REFINADA CON IA) ===\n\ntexto refinado\n", string(transcript))

	minutes, err := os.ReadFile(b.MinutesPath)
	require.NoError(t, err)
	assert.Equal(t, "=== CONTENIDO EXTRAÍDO DEL PDF ===\n\n(No se extrajo texto del PDF)\n", string(minutes))

	assert.FileExists(t, b.AnalysisPath)
}

func TestSaveAllEmpty(t *testing.T) {
	e := newTestExporter()
	_, err := e.SaveAll(t.TempDir(), &pipeline.Result{})
	assert.True(t, errors.Is(err, ErrEmptyReport))

	_, err = e.SaveAll(t.TempDir(), nil)
	assert.True(t, errors.Is(err, ErrEmptyReport))
}

func TestLabelsFor(t *testing.T) {
	assert.Equal(t, "analysis", LabelsFor("en").AnalysisPrefix)
	assert.Equal(t, "analisis", LabelsFor("fr").AnalysisPrefix)
	assert.Equal(t, "(Sin texto o no se pudo transcribir)", DisplayTranscript("es", " "))
	assert.Equal(t, "acta", DisplayMinutes("es", "acta"))
}

func TestParseBlocks(t *testing.T) {
	blocks := parseBlocks("## 3) Coincidencias clave\n\n---\n- **Presupuesto**: aprobado `2024`\nTexto con **dos** y **tres** marcas")
	require.Len(t, blocks, 3)

	assert.Equal(t, blockHeading, blocks[0].kind)
	assert.Equal(t, 2, blocks[0].level)
	assert.Equal(t, "3) Coincidencias clave", blocks[0].plain())

	assert.Equal(t, blockBullet, blocks[1].kind)
	assert.Equal(t, []span{{text: "Presupuesto", bold: true}, {text: ": aprobado 2024"}}, blocks[1].spans)

	assert.Equal(t, blockParagraph, blocks[2].kind)
	assert.Equal(t, []span{
		{text: "Texto con "}, {text: "dos", bold: true}, {text: " y "}, {text: "tres", bold: true}, {text: " marcas"},
	}, blocks[2].spans)
}

func TestHeadingSize(t *testing.T) {
	assert.Equal(t, 16.0, headingSize(1))
	assert.Equal(t, 14.0, headingSize(2))
	assert.Equal(t, 13.0, headingSize(4))
}
