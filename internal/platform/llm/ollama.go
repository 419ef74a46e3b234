package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/yungbote/echonova-backend/internal/platform/logger"
)

const providerOllama = "ollama"

// Ollama posts non-streaming chat requests to a self-hosted server. Both the
// base URL and the model name are required.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
	log     *logger.Logger
}

var _ Provider = (*Ollama)(nil)

func NewOllama(cfg OllamaSettings, client *http.Client, log *logger.Logger) *Ollama {
	if client == nil {
		client = defaultHTTPClient(0)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Ollama{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		model:   strings.TrimSpace(cfg.Model),
		client:  client,
		log:     log.With("client", "OllamaProvider"),
	}
}

type ollamaRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Format   string        `json:"format"`
	Stream   bool          `json:"stream"`
}

type ollamaResponse struct {
	Model     string       `json:"model"`
	CreatedAt string       `json:"created_at"`
	Message   *chatMessage `json:"message"`
	Done      bool         `json:"done"`
}

func (o *Ollama) SendTurn(ctx context.Context, message string, history []Turn, initialPrompt string) (reply Reply, err error) {
	if o.baseURL == "" || o.model == "" {
		return Reply{}, missingConfig(providerOllama, "OLLAMA_BASE_URL", "OLLAMA_MODEL_NAME")
	}
	ctx, tel := startCall(ctx, providerOllama, o.model, len(history))
	defer func() { tel.end(ctx, reply, err) }()

	var resp ollamaResponse
	err = postJSON(ctx, o.client, providerOllama, o.baseURL+"/api/chat", nil,
		ollamaRequest{
			Model:    o.model,
			Messages: chatMessages(message, history, initialPrompt),
			Format:   "json",
			Stream:   false,
		},
		&resp,
	)
	if err != nil {
		return Reply{}, err
	}
	if resp.Message == nil || resp.Message.Content == "" {
		return Reply{}, &BackendError{Provider: providerOllama, Err: errors.New("response contained no message content")}
	}
	return Normalize(o.log, providerOllama, resp.Message.Content), nil
}
