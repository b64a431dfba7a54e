package executor

import (
	"context"
	"strings"
	"testing"
)

func TestExecute(t *testing.T) {
	if _, err := LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	exec := New()

	out, err := exec.Execute(context.Background(), "sh", "-c", "printf hello")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "hello" {
		t.Errorf("Execute() = %q, want %q", out, "hello")
	}
}

func TestExecuteIncludesStderr(t *testing.T) {
	if _, err := LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	exec := New()

	_, err := exec.Execute(context.Background(), "sh", "-c", "echo broken >&2; exit 3")
	if err == nil {
		t.Fatal("Execute() should fail for non-zero exit")
	}
	if !strings.Contains(err.Error(), "stderr: broken") {
		t.Errorf("error %q should include stderr", err)
	}
}

func TestLookPathMissing(t *testing.T) {
	if _, err := LookPath("definitely-not-a-real-binary-xyz"); err == nil {
		t.Error("LookPath() should fail for missing binary")
	}
}
