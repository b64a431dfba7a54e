// Package llm talks to the language model that refines transcripts and writes
// the fidelity report.
//
// Two backends exist: a local Ollama server reached over its HTTP API, and
// Google Gemini through the genai SDK. Both satisfy Client. Connection-level
// failures are reported as ErrUnavailable so callers can degrade instead of
// aborting.
package llm
