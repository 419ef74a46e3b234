package services

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/echonova-backend/internal/platform/logger"
)

const diagnosticScriptEnv = "DIAGNOSTIC_SCRIPT_YAML"

//go:embed prompts/diagnostic_script.yaml
var diagnosticScriptFS embed.FS

// DiagnosticScript is the instruction template sent ahead of every conversation.
type DiagnosticScript struct {
	Name               string `yaml:"script"`
	Version            int    `yaml:"version"`
	CatalogPlaceholder string `yaml:"catalog_placeholder"`
	Prompt             string `yaml:"prompt"`
}

// Render substitutes the formatted track catalog into the prompt.
func (s *DiagnosticScript) Render(catalog string) string {
	return strings.Replace(s.Prompt, s.CatalogPlaceholder, catalog, 1)
}

var (
	scriptOnce  sync.Once
	scriptCache *DiagnosticScript
	scriptErr   error
)

// LoadDiagnosticScript reads the script from DIAGNOSTIC_SCRIPT_YAML when set,
// otherwise from the embedded copy. The result is cached for the process.
func LoadDiagnosticScript(log *logger.Logger) (*DiagnosticScript, error) {
	scriptOnce.Do(func() {
		scriptCache, scriptErr = loadDiagnosticScript()
		if scriptErr == nil && log != nil {
			log.Info("diagnostic script loaded", "script", scriptCache.Name, "version", scriptCache.Version)
		}
	})
	return scriptCache, scriptErr
}

func loadDiagnosticScript() (*DiagnosticScript, error) {
	data, err := readDiagnosticScript()
	if err != nil {
		return nil, err
	}
	return ParseDiagnosticScript(data)
}

func ParseDiagnosticScript(data []byte) (*DiagnosticScript, error) {
	var script DiagnosticScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse diagnostic script: %w", err)
	}
	if strings.TrimSpace(script.Prompt) == "" {
		return nil, errors.New("diagnostic script: prompt is empty")
	}
	if script.CatalogPlaceholder == "" {
		script.CatalogPlaceholder = "{TRILHAS_DISPONIVEIS}"
	}
	if !strings.Contains(script.Prompt, script.CatalogPlaceholder) {
		return nil, fmt.Errorf("diagnostic script: prompt lacks placeholder %s", script.CatalogPlaceholder)
	}
	return &script, nil
}

func readDiagnosticScript() ([]byte, error) {
	if path := strings.TrimSpace(os.Getenv(diagnosticScriptEnv)); path != "" {
		return os.ReadFile(path)
	}
	return diagnosticScriptFS.ReadFile("prompts/diagnostic_script.yaml")
}
