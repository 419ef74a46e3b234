package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/yungbote/echonova-backend/internal/platform/logger"
)

const (
	providerGemini       = "gemini"
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	defaultGeminiModel   = "gemini-1.5-flash"
)

// Gemini talks to the Google generateContent endpoint in JSON response mode.
// The initial prompt is sent as a leading user turn.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	log     *logger.Logger
}

var _ Provider = (*Gemini)(nil)

func NewGemini(cfg GeminiSettings, client *http.Client, log *logger.Logger) *Gemini {
	if client == nil {
		client = defaultHTTPClient(0)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Gemini{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		model:   orDefault(cfg.Model, defaultGeminiModel),
		baseURL: trimBaseURL(cfg.BaseURL, defaultGeminiBaseURL),
		client:  client,
		log:     log.With("client", "GeminiProvider"),
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

func (g *Gemini) SendTurn(ctx context.Context, message string, history []Turn, initialPrompt string) (reply Reply, err error) {
	if g.apiKey == "" {
		return Reply{}, missingConfig(providerGemini, "GOOGLE_GEMINI_API_KEY")
	}
	ctx, tel := startCall(ctx, providerGemini, g.model, len(history))
	defer func() { tel.end(ctx, reply, err) }()

	contents := make([]geminiContent, 0, len(history)+2)
	contents = append(contents, geminiContent{Role: string(RoleUser), Parts: []geminiPart{{Text: initialPrompt}}})
	for _, turn := range history {
		parts := make([]geminiPart, 0, len(turn.Parts))
		for _, p := range turn.Parts {
			parts = append(parts, geminiPart{Text: p.Text})
		}
		contents = append(contents, geminiContent{Role: string(turn.Role), Parts: parts})
	}
	contents = append(contents, geminiContent{Role: string(RoleUser), Parts: []geminiPart{{Text: message}}})

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
	var resp geminiResponse
	err = postJSON(ctx, g.client, providerGemini, endpoint,
		map[string]string{"x-goog-api-key": g.apiKey},
		geminiRequest{
			Contents:         contents,
			GenerationConfig: geminiGenerationConfig{ResponseMimeType: "application/json"},
		},
		&resp,
	)
	if err != nil {
		return Reply{}, err
	}
	if len(resp.Candidates) == 0 {
		return Reply{}, &BackendError{Provider: providerGemini, Err: errors.New("response contained no candidates")}
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return Normalize(g.log, providerGemini, sb.String()), nil
}
