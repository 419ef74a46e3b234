package llm

import "strings"

type Status string

const (
	StatusStarted      Status = "started"
	StatusInProgress   Status = "in_progress"
	StatusConfirmation Status = "confirmation"
	StatusFinalized    Status = "finalized"
)

// statusAliases accepts the Portuguese phase names some prompts and models emit.
var statusAliases = map[string]Status{
	"started":      StatusStarted,
	"iniciado":     StatusStarted,
	"in_progress":  StatusInProgress,
	"em_andamento": StatusInProgress,
	"confirmation": StatusConfirmation,
	"confirmacao":  StatusConfirmation,
	"confirmação":  StatusConfirmation,
	"finalized":    StatusFinalized,
	"finalizado":   StatusFinalized,
}

// ParseStatus canonicalizes a raw phase name. ok is false for unknown phases.
func ParseStatus(raw string) (Status, bool) {
	s, ok := statusAliases[strings.ToLower(strings.TrimSpace(raw))]
	return s, ok
}

// Question is the next-question payload of an in_progress reply.
type Question struct {
	Text        string   `json:"texto"`
	AnswerType  string   `json:"tipo_resposta,omitempty"`
	Options     []string `json:"opcoes"`
	Placeholder string   `json:"placeholder,omitempty"`
}

// Reply is the canonical structured reply every backend must produce.
// Exactly one of NextQuestion, StepSummary, FinalReport is populated,
// depending on Status.
type Reply struct {
	Status        Status         `json:"status"`
	NextQuestion  *Question      `json:"proxima_pergunta"`
	StepSummary   *string        `json:"resumo_etapa"`
	CollectedData map[string]any `json:"dados_coletados"`
	FinalReport   *string        `json:"relatorio_final"`
}

func (r Reply) FinalReportText() string {
	if r.FinalReport == nil {
		return ""
	}
	return *r.FinalReport
}

func (r Reply) StepSummaryText() string {
	if r.StepSummary == nil {
		return ""
	}
	return *r.StepSummary
}

func (r Reply) NextQuestionText() string {
	if r.NextQuestion == nil {
		return ""
	}
	return r.NextQuestion.Text
}

const (
	fallbackQuestionText = "Desculpe, ocorreu um erro ao processar sua resposta. Você poderia repetir?"
	fallbackAnswerType   = "texto"
	fallbackPlaceholder  = "Sua resposta..."
)

// FallbackReply is returned in place of any backend output that cannot be
// parsed: an in_progress turn asking the user to repeat themselves.
func FallbackReply() Reply {
	return Reply{
		Status: StatusInProgress,
		NextQuestion: &Question{
			Text:        fallbackQuestionText,
			AnswerType:  fallbackAnswerType,
			Options:     nil,
			Placeholder: fallbackPlaceholder,
		},
		CollectedData: map[string]any{},
	}
}
