package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/yungbote/echonova-backend/internal/platform/logger"
)

const (
	providerOpenAI           = "openai"
	defaultOpenAIBaseURL     = "https://api.openai.com"
	defaultOpenAIModel       = "gpt-4o-mini"
	defaultOpenAITemperature = 0.7
)

// OpenAI uses the chat completions endpoint in JSON object mode. The initial
// prompt travels as the system message.
type OpenAI struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	client      *http.Client
	log         *logger.Logger
}

var _ Provider = (*OpenAI)(nil)

func NewOpenAI(cfg OpenAISettings, client *http.Client, log *logger.Logger) *OpenAI {
	if client == nil {
		client = defaultHTTPClient(0)
	}
	if log == nil {
		log = logger.NewNop()
	}
	temp := cfg.Temperature
	if temp <= 0 {
		temp = defaultOpenAITemperature
	}
	return &OpenAI{
		apiKey:      strings.TrimSpace(cfg.APIKey),
		model:       orDefault(cfg.Model, defaultOpenAIModel),
		baseURL:     trimBaseURL(cfg.BaseURL, defaultOpenAIBaseURL),
		temperature: temp,
		client:      client,
		log:         log.With("client", "OpenAIProvider"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponseFormat struct {
	Type string `json:"type"`
}

type openAIRequest struct {
	Model          string               `json:"model"`
	Messages       []chatMessage        `json:"messages"`
	ResponseFormat openAIResponseFormat `json:"response_format"`
	Temperature    float64              `json:"temperature"`
}

type openAIResponse struct {
	Choices []struct {
		Message *chatMessage `json:"message"`
	} `json:"choices"`
}

func chatMessages(message string, history []Turn, initialPrompt string) []chatMessage {
	msgs := make([]chatMessage, 0, len(history)+2)
	msgs = append(msgs, chatMessage{Role: "system", Content: initialPrompt})
	for _, turn := range history {
		msgs = append(msgs, chatMessage{Role: chatRole(turn.Role), Content: turn.Text()})
	}
	return append(msgs, chatMessage{Role: "user", Content: message})
}

func (o *OpenAI) SendTurn(ctx context.Context, message string, history []Turn, initialPrompt string) (reply Reply, err error) {
	if o.apiKey == "" {
		return Reply{}, missingConfig(providerOpenAI, "OPENAI_API_KEY")
	}
	ctx, tel := startCall(ctx, providerOpenAI, o.model, len(history))
	defer func() { tel.end(ctx, reply, err) }()

	var resp openAIResponse
	err = postJSON(ctx, o.client, providerOpenAI, o.baseURL+"/v1/chat/completions",
		map[string]string{"Authorization": "Bearer " + o.apiKey},
		openAIRequest{
			Model:          o.model,
			Messages:       chatMessages(message, history, initialPrompt),
			ResponseFormat: openAIResponseFormat{Type: "json_object"},
			Temperature:    o.temperature,
		},
		&resp,
	)
	if err != nil {
		return Reply{}, err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		return Reply{}, &BackendError{Provider: providerOpenAI, Err: errors.New("response contained no message")}
	}
	return Normalize(o.log, providerOpenAI, resp.Choices[0].Message.Content), nil
}
