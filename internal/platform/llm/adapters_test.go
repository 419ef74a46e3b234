package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yungbote/echonova-backend/internal/platform/logger"
)

var sampleHistory = []Turn{
	TextTurn(RoleUser, "Olá"),
	TextTurn(RoleModel, `{"status":"started"}`),
}

func TestGeminiSendTurn(t *testing.T) {
	var seen geminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/v1beta/models/gemini-test:generateContent" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "g-key" {
			t.Fatalf("unexpected api key header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&seen); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"status\":\"in_progress\",\"proxima_pergunta\":{\"texto\":\"What is your sector?\"}}"}]}}]}`))
	}))
	defer server.Close()

	g := NewGemini(GeminiSettings{APIKey: "g-key", Model: "gemini-test", BaseURL: server.URL + "/"}, server.Client(), logger.NewNop())
	reply, err := g.SendTurn(context.Background(), "42 employees", sampleHistory, "PROMPT")
	if err != nil {
		t.Fatalf("SendTurn: %v", err)
	}
	if reply.Status != StatusInProgress || reply.NextQuestionText() != "What is your sector?" {
		t.Fatalf("unexpected reply %+v", reply)
	}
	if seen.GenerationConfig.ResponseMimeType != "application/json" {
		t.Fatalf("expected json response mode, got %q", seen.GenerationConfig.ResponseMimeType)
	}
	if len(seen.Contents) != 4 {
		t.Fatalf("expected prompt + 2 history + message, got %d contents", len(seen.Contents))
	}
	if seen.Contents[0].Role != "user" || seen.Contents[0].Parts[0].Text != "PROMPT" {
		t.Fatalf("expected initial prompt as leading user turn, got %+v", seen.Contents[0])
	}
	if seen.Contents[2].Role != "model" {
		t.Fatalf("expected history replayed verbatim, got role %q", seen.Contents[2].Role)
	}
	if last := seen.Contents[3]; last.Role != "user" || last.Parts[0].Text != "42 employees" {
		t.Fatalf("unexpected trailing content %+v", last)
	}
}

func TestGeminiMalformedTextUsesFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"sorry, I cannot"}]}}]}`))
	}))
	defer server.Close()

	g := NewGemini(GeminiSettings{APIKey: "k", BaseURL: server.URL}, server.Client(), logger.NewNop())
	reply, err := g.SendTurn(context.Background(), "x", nil, "p")
	if err != nil {
		t.Fatalf("SendTurn: %v", err)
	}
	if reply.NextQuestionText() != fallbackQuestionText {
		t.Fatalf("expected fallback reply, got %+v", reply)
	}
}

func TestOpenAISendTurn(t *testing.T) {
	var seen openAIRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("expected /v1/chat/completions, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected authorization header: %s", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Fatalf("expected content-type=application/json, got %s", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&seen); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"status\":\"confirmation\",\"resumo_etapa\":\"Resumo\"}"}}]}`))
	}))
	defer server.Close()

	o := NewOpenAI(OpenAISettings{APIKey: "test-key", BaseURL: server.URL}, server.Client(), logger.NewNop())
	reply, err := o.SendTurn(context.Background(), "sim", sampleHistory, "SYSTEM")
	if err != nil {
		t.Fatalf("SendTurn: %v", err)
	}
	if reply.Status != StatusConfirmation || reply.StepSummaryText() != "Resumo" {
		t.Fatalf("unexpected reply %+v", reply)
	}
	if seen.Model != defaultOpenAIModel {
		t.Fatalf("expected default model %q, got %q", defaultOpenAIModel, seen.Model)
	}
	if seen.ResponseFormat.Type != "json_object" {
		t.Fatalf("expected json_object response format, got %q", seen.ResponseFormat.Type)
	}
	if seen.Temperature != defaultOpenAITemperature {
		t.Fatalf("expected temperature %v, got %v", defaultOpenAITemperature, seen.Temperature)
	}
	wantRoles := []string{"system", "user", "assistant", "user"}
	if len(seen.Messages) != len(wantRoles) {
		t.Fatalf("expected %d messages, got %d", len(wantRoles), len(seen.Messages))
	}
	for i, role := range wantRoles {
		if seen.Messages[i].Role != role {
			t.Fatalf("message %d role = %q, want %q", i, seen.Messages[i].Role, role)
		}
	}
	if seen.Messages[0].Content != "SYSTEM" || seen.Messages[3].Content != "sim" {
		t.Fatalf("unexpected messages %+v", seen.Messages)
	}
}

func TestOpenAIUpstreamErrorIsBackendUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer server.Close()

	o := NewOpenAI(OpenAISettings{APIKey: "nope", BaseURL: server.URL}, server.Client(), logger.NewNop())
	_, err := o.SendTurn(context.Background(), "x", nil, "p")
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
	var be *BackendError
	if !errors.As(err, &be) || be.HTTPStatusCode() != http.StatusUnauthorized {
		t.Fatalf("expected BackendError with status 401, got %v", err)
	}
}

func TestOpenAIMissingChoicesIsBackendUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	o := NewOpenAI(OpenAISettings{APIKey: "k", BaseURL: server.URL}, server.Client(), logger.NewNop())
	if _, err := o.SendTurn(context.Background(), "x", nil, "p"); !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestOllamaSendTurn(t *testing.T) {
	var seen ollamaRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Fatalf("expected /api/chat, got %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&seen); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"model":"llama3","message":{"role":"assistant","content":"{\"status\":\"iniciado\"}"},"done":true}`))
	}))
	defer server.Close()

	o := NewOllama(OllamaSettings{BaseURL: server.URL, Model: "llama3"}, server.Client(), logger.NewNop())
	reply, err := o.SendTurn(context.Background(), "Hello", nil, "PROMPT")
	if err != nil {
		t.Fatalf("SendTurn: %v", err)
	}
	if reply.Status != StatusStarted {
		t.Fatalf("status = %q, want started", reply.Status)
	}
	if seen.Format != "json" || seen.Stream {
		t.Fatalf("expected non-streaming json request, got format=%q stream=%v", seen.Format, seen.Stream)
	}
	if seen.Model != "llama3" || len(seen.Messages) != 2 || seen.Messages[0].Role != "system" {
		t.Fatalf("unexpected request %+v", seen)
	}
}

func TestOllamaEmptyMessageIsBackendUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"model":"llama3","done":true}`))
	}))
	defer server.Close()

	o := NewOllama(OllamaSettings{BaseURL: server.URL, Model: "llama3"}, server.Client(), logger.NewNop())
	if _, err := o.SendTurn(context.Background(), "x", nil, "p"); !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestTransportFailureIsBackendUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	o := NewOllama(OllamaSettings{BaseURL: url, Model: "llama3"}, nil, logger.NewNop())
	if _, err := o.SendTurn(context.Background(), "x", nil, "p"); !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}
