package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/echonova-backend/internal/platform/logger"
)

var errUnknownStatus = errors.New("unknown reply status")

// ParseReply decodes raw backend text into a Reply. It tolerates surrounding
// whitespace and a Markdown code fence, and canonicalizes status aliases.
func ParseReply(raw string) (Reply, error) {
	body := stripCodeFence(strings.TrimSpace(raw))
	if body == "" {
		return Reply{}, errors.New("empty reply")
	}
	var out Reply
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return Reply{}, err
	}
	status, ok := ParseStatus(string(out.Status))
	if !ok {
		return Reply{}, fmt.Errorf("%w: %q", errUnknownStatus, out.Status)
	}
	out.Status = status
	if out.CollectedData == nil {
		out.CollectedData = map[string]any{}
	}
	return out, nil
}

// Normalize never fails: unparseable output is logged and replaced with FallbackReply.
func Normalize(log *logger.Logger, provider string, raw string) Reply {
	reply, err := ParseReply(raw)
	if err != nil {
		if log != nil {
			log.Warn("backend reply could not be parsed, using fallback reply",
				"provider", provider,
				"error", err,
				"raw_reply", raw,
			)
		}
		return FallbackReply()
	}
	return reply
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the info string, e.g. ```json
		s = s[nl+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
