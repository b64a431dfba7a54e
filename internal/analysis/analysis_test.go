package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeClient) Name() string { return "fake/model" }

func (f *fakeClient) Chat(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeClient) Ping(ctx context.Context) error { return f.err }

func TestRefine(t *testing.T) {
	client := &fakeClient{reply: "  Se aprobó el presupuesto.  "}
	a := New(client, "es", nil)

	got := a.Refine(context.Background(), "se aprobo el presupuesto eh")
	assert.Equal(t, Refinement{Text: "Se aprobó el presupuesto.", Refined: true}, got)
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "No resumas, solo organiza y corrige.")
	assert.Contains(t, client.prompts[0], "se aprobo el presupuesto eh")
}

func TestRefineFallsBackOnError(t *testing.T) {
	client := &fakeClient{err: errors.New("connection refused")}
	got := New(client, "es", nil).Refine(context.Background(), "texto crudo")
	assert.Equal(t, Refinement{Text: "texto crudo"}, got)
}

func TestRefineFallsBackOnEmptyReply(t *testing.T) {
	client := &fakeClient{reply: "   "}
	got := New(client, "es", nil).Refine(context.Background(), "texto crudo")
	assert.Equal(t, Refinement{Text: "texto crudo"}, got)
}

func TestRefineSkipsEmptyInput(t *testing.T) {
	client := &fakeClient{reply: "invented"}
	got := New(client, "es", nil).Refine(context.Background(), "  ")
	assert.False(t, got.Refined)
	assert.Empty(t, client.prompts, "no model call for an empty transcript")
}

func TestCompare(t *testing.T) {
	client := &fakeClient{reply: "1) Resumen..."}
	report, err := New(client, "es", nil).Compare(context.Background(), "lo dicho", "lo escrito")
	require.NoError(t, err)
	assert.Equal(t, "1) Resumen...", report)

	prompt := client.prompts[0]
	assert.Contains(t, prompt, "TRANSCRIPCIÓN:\nlo dicho\n")
	assert.Contains(t, prompt, "ACTA:\nlo escrito\n")
	assert.True(t, strings.Index(prompt, "lo dicho") < strings.Index(prompt, "lo escrito"))
	assert.Contains(t, prompt, "7) Conclusión")
}

func TestCompareEnglishPrompts(t *testing.T) {
	client := &fakeClient{reply: "ok"}
	_, err := New(client, "en", nil).Compare(context.Background(), "said", "written")
	require.NoError(t, err)
	assert.Contains(t, client.prompts[0], "MINUTES:\nwritten\n")
}

func TestCompareUnknownLanguageUsesSpanish(t *testing.T) {
	client := &fakeClient{reply: "ok"}
	_, err := New(client, "fr", nil).Compare(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Contains(t, client.prompts[0], "ACTA:")
}

func TestCompareError(t *testing.T) {
	cause := errors.New("boom")
	_, err := New(&fakeClient{err: cause}, "es", nil).Compare(context.Background(), "a", "b")
	assert.ErrorIs(t, err, cause)
}

func TestParseFidelity(t *testing.T) {
	tests := []struct {
		name   string
		report string
		want   float64
		wantOK bool
	}{
		{
			name:   "conclusion section",
			report: "4) Omisiones: 10% del debate\n7) Conclusión: fidelidad aproximada del 85 %. El acta omite...",
			want:   85,
			wantOK: true,
		},
		{
			name:   "decimal comma",
			report: "Conclusión: grado de fidelidad 72,5% por discrepancias en fechas",
			want:   72.5,
			wantOK: true,
		},
		{
			name:   "english",
			report: "7) Conclusion: the minutes are about 90% faithful.",
			want:   90,
			wantOK: true,
		},
		{
			name:   "no heading uses last percentage",
			report: "Se trató el 20% del orden del día. Estimación: 60%",
			want:   60,
			wantOK: true,
		},
		{
			name:   "justification after conclusion",
			report: "7) Conclusión: fidelidad 85%. La omisión del punto 3 afecta la fidelidad en un 10%.",
			want:   85,
			wantOK: true,
		},
		{
			name:   "fidelity word without conclusion heading",
			report: "Se trató el 20% del orden del día.\nFidelidad estimada: 70%. Faltan 2 puntos.",
			want:   70,
			wantOK: true,
		},
		{
			name:   "out of range",
			report: "Conclusión: 150%",
			wantOK: false,
		},
		{
			name:   "no percentage",
			report: "Conclusión: el acta es fiel.",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseFidelity(tt.report)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 0.001)
			}
		})
	}
}

func TestFailureNotice(t *testing.T) {
	cause := errors.New("connection refused")
	assert.Equal(t, "❌ Error al usar ollama/mistral: connection refused", FailureNotice("es", "ollama/mistral", cause))
	assert.Equal(t, "❌ Error using ollama/mistral: connection refused", FailureNotice("en", "ollama/mistral", cause))
	assert.Equal(t, "❌ Error al usar x: connection refused", FailureNotice("", "x", cause))
}
