// Package llm holds the single-turn provider contract used by the diagnostic
// engine and its three backend adapters (Gemini, OpenAI, Ollama).
package llm

import (
	"context"
	"strings"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Part is one content fragment of a turn. Only text fragments are produced today.
type Part struct {
	Text string `json:"text"`
}

// Turn is one history entry, replayed verbatim to the backend on every call.
type Turn struct {
	Role  Role   `json:"role"`
	Parts []Part `json:"parts"`
}

func TextTurn(role Role, text string) Turn {
	return Turn{Role: role, Parts: []Part{{Text: text}}}
}

// Text joins the text fragments of the turn.
func (t Turn) Text() string {
	switch len(t.Parts) {
	case 0:
		return ""
	case 1:
		return t.Parts[0].Text
	}
	var sb strings.Builder
	for _, p := range t.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// Provider sends one conversational turn to a backend and returns its
// structured reply. Malformed backend output never surfaces as an error; it
// is replaced with FallbackReply. Transport and upstream auth failures are
// returned wrapped in ErrBackendUnavailable.
type Provider interface {
	SendTurn(ctx context.Context, message string, history []Turn, initialPrompt string) (Reply, error)
}

// chatRole maps a history role onto the OpenAI-style role vocabulary shared
// by the OpenAI and Ollama chat endpoints.
func chatRole(r Role) string {
	if r == RoleModel {
		return "assistant"
	}
	return "user"
}
