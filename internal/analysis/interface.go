package analysis

import "context"

// Refinement is the outcome of cleaning up a raw transcript.
type Refinement struct {
	Text    string
	Refined bool
}

// Analyzer runs the language-model stages of an audit.
type Analyzer interface {
	// Refine rewrites a raw transcript for grammar and coherence. Model
	// failures fall back to the raw text.
	Refine(ctx context.Context, raw string) Refinement
	// Compare produces the fidelity report of minutes against transcript.
	Compare(ctx context.Context, transcript, minutes string) (string, error)
}
