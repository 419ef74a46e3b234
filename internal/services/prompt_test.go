package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedDiagnosticScript(t *testing.T) {
	data, err := diagnosticScriptFS.ReadFile("prompts/diagnostic_script.yaml")
	if err != nil {
		t.Fatalf("read embedded script: %v", err)
	}
	script, err := ParseDiagnosticScript(data)
	if err != nil {
		t.Fatalf("ParseDiagnosticScript: %v", err)
	}
	rendered := script.Render("- Trilha X")
	if strings.Contains(rendered, "{TRILHAS_DISPONIVEIS}") || !strings.Contains(rendered, "- Trilha X") {
		t.Fatalf("placeholder not substituted")
	}
	for _, status := range []string{"started", "in_progress", "confirmation", "finalized"} {
		if !strings.Contains(script.Prompt, status) {
			t.Fatalf("script does not mention status %q", status)
		}
	}
}

func TestParseDiagnosticScriptValidation(t *testing.T) {
	if _, err := ParseDiagnosticScript([]byte("prompt: \"\"\n")); err == nil {
		t.Fatalf("expected error for empty prompt")
	}
	if _, err := ParseDiagnosticScript([]byte("prompt: \"no placeholder\"\n")); err == nil {
		t.Fatalf("expected error for missing placeholder")
	}
	script, err := ParseDiagnosticScript([]byte("prompt: \"A <<CATALOG>> B\"\ncatalog_placeholder: \"<<CATALOG>>\"\n"))
	if err != nil {
		t.Fatalf("custom placeholder: %v", err)
	}
	if got := script.Render("x"); got != "A x B" {
		t.Fatalf("Render = %q", got)
	}
}

func TestReadDiagnosticScriptOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.yaml")
	if err := os.WriteFile(path, []byte("prompt: \"custom {TRILHAS_DISPONIVEIS}\"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv(diagnosticScriptEnv, path)
	script, err := loadDiagnosticScript()
	if err != nil {
		t.Fatalf("loadDiagnosticScript: %v", err)
	}
	if !strings.HasPrefix(script.Prompt, "custom") {
		t.Fatalf("override not used: %q", script.Prompt)
	}
}
