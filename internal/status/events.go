package status

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Lifecycle event kinds delivered by the host. Unknown kinds are ignored by
// the tracker so newer hosts can add events without breaking older indicators.
const (
	EventSessionStart  = "session:start"
	EventSessionEnd    = "session:end"
	EventSessionError  = "session:error"
	EventLLMRequest    = "llm:request"
	EventLLMResponse   = "llm:response"
	EventStreamStart   = "llm:stream_start"
	EventStreamChunk   = "llm:stream_chunk"
	EventStreamEnd     = "llm:stream_end"
	EventToolPre       = "tool:pre"
	EventToolPost      = "tool:post"
	EventTurnStart     = "turn:start"
	EventTurnEnd       = "turn:end"
	EventAgentSpawned  = "task:agent_spawned"
	EventAgentComplete = "task:agent_complete"
)

// Event is one decoded lifecycle event. The wire format is a flat JSON
// object; only the fields the tracker needs are decoded, everything else is
// ignored.
type Event struct {
	Kind      string `json:"event"`
	Tool      string `json:"tool,omitempty"`
	Agent     string `json:"agent,omitempty"`
	TokensIn  int64  `json:"tokens_in,omitempty"`
	TokensOut int64  `json:"tokens_out,omitempty"`
	Timestamp int64  `json:"ts,omitempty"`
}

// ParseEvent decodes a single wire event.
func ParseEvent(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("parse event: %w", err)
	}
	if ev.Kind == "" {
		return Event{}, fmt.Errorf("parse event: missing event kind")
	}
	return ev, nil
}

// isStream reports whether kind is one of the llm:stream_* events.
func isStream(kind string) bool {
	return strings.HasPrefix(kind, "llm:stream_")
}
