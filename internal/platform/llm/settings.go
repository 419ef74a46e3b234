package llm

import (
	"time"

	"github.com/yungbote/echonova-backend/internal/platform/envutil"
)

type GeminiSettings struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OpenAISettings struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
}

type OllamaSettings struct {
	BaseURL string
	Model   string
}

// Settings is the connection configuration of every adapter plus the name
// of the backend to use. Missing adapter settings are only an error once
// that adapter is asked to send a turn.
type Settings struct {
	Provider string
	Timeout  time.Duration
	Gemini   GeminiSettings
	OpenAI   OpenAISettings
	Ollama   OllamaSettings
}

func SettingsFromEnv() Settings {
	return Settings{
		Provider: envutil.String("AI_PROVIDER", ""),
		Timeout:  time.Duration(envutil.Int("AI_TIMEOUT_SECONDS", 120)) * time.Second,
		Gemini: GeminiSettings{
			APIKey:  envutil.String("GOOGLE_GEMINI_API_KEY", ""),
			Model:   envutil.String("GEMINI_MODEL", ""),
			BaseURL: envutil.String("GEMINI_BASE_URL", ""),
		},
		OpenAI: OpenAISettings{
			APIKey:  envutil.String("OPENAI_API_KEY", ""),
			Model:   envutil.String("OPENAI_MODEL", ""),
			BaseURL: envutil.String("OPENAI_BASE_URL", ""),
		},
		Ollama: OllamaSettings{
			BaseURL: envutil.String("OLLAMA_BASE_URL", ""),
			Model:   envutil.String("OLLAMA_MODEL_NAME", ""),
		},
	}
}
