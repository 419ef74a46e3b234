package llm

import (
	"net/http"
	"strings"

	"github.com/yungbote/echonova-backend/internal/platform/logger"
)

type Backend string

const (
	BackendGemini Backend = "gemini"
	BackendOpenAI Backend = "openai"
	BackendOllama Backend = "ollama"
)

// ParseBackend matches a backend name case-insensitively.
func ParseBackend(name string) (Backend, bool) {
	switch Backend(strings.ToLower(strings.TrimSpace(name))) {
	case BackendGemini:
		return BackendGemini, true
	case BackendOpenAI:
		return BackendOpenAI, true
	case BackendOllama:
		return BackendOllama, true
	}
	return "", false
}

// Selector builds the configured adapter. Absent or unrecognized names fall
// back to Gemini.
type Selector struct {
	settings Settings
	client   *http.Client
	log      *logger.Logger
}

func NewSelector(settings Settings, client *http.Client, log *logger.Logger) *Selector {
	if client == nil {
		client = defaultHTTPClient(settings.Timeout)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Selector{settings: settings, client: client, log: log.With("component", "ProviderSelector")}
}

func (s *Selector) Backend() Backend {
	b, ok := ParseBackend(s.settings.Provider)
	if !ok {
		if strings.TrimSpace(s.settings.Provider) != "" {
			s.log.Warn("unrecognized AI_PROVIDER, using gemini", "provider", s.settings.Provider)
		}
		return BackendGemini
	}
	return b
}

// Select never fails; adapters report missing settings when first used.
func (s *Selector) Select() Provider {
	backend := s.Backend()
	s.log.Debug("language model backend selected", "backend", backend)
	switch backend {
	case BackendOpenAI:
		return NewOpenAI(s.settings.OpenAI, s.client, s.log)
	case BackendOllama:
		return NewOllama(s.settings.Ollama, s.client, s.log)
	default:
		return NewGemini(s.settings.Gemini, s.client, s.log)
	}
}
