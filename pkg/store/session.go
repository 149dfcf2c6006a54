package store

import (
	"strconv"
)

// Metadata holds the attributes stored alongside a vector index entry.
// The schema is informal: catalog rows carry referencia/descripcion/
// precio_unitario/pg/categoria, manually ingested entries carry texto only.
type Metadata map[string]interface{}

// Field returns the value for key rendered as display text. Pinecone
// decodes every JSON number as float64, so integers like referencia are
// formatted without an exponent or trailing zeros.
func (m Metadata) Field(key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// Has reports whether key is present with a non-nil value.
func (m Metadata) Has(key string) bool {
	v, ok := m[key]
	return ok && v != nil
}

// Match is a scored vector index hit. Produced transiently per query,
// never persisted.
type Match struct {
	Id        string   `json:"id"`
	Score     float64  `json:"score"`
	Namespace string   `json:"namespace"`
	Metadata  Metadata `json:"metadata"`
}

// Session is the per-user conversational state kept in memory between
// requests: the last catalog record the user asked about, the assistant
// thread carrying the conversation, and a rolling window of recent
// messages used as embedding input.
type Session struct {
	UserId    string   `json:"user_id"`
	ThreadId  string   `json:"thread_id"`
	LastMatch Metadata `json:"last_match"`
	History   []string `json:"history"`
}

// Remember appends message to the rolling history, trimming to window
// entries. A window of zero keeps no history.
func (s *Session) Remember(message string, window int) {
	if window <= 0 {
		return
	}
	s.History = append(s.History, message)
	if len(s.History) > window {
		s.History = s.History[len(s.History)-window:]
	}
}
