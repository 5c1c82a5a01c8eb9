package models

// SessionState holds per-chat UI state: the current dialog step and any
// draft data (admin form fields, item being edited). Baskets are NOT part
// of the session state and are never persisted.
type SessionState struct {
	ChatID int64                  `json:"chat_id"`
	Step   string                 `json:"step"`
	Data   map[string]interface{} `json:"data,omitempty"`
}

func (s *SessionState) GetInt64(key string) int64 {
	if s.Data == nil {
		return 0
	}
	val, ok := s.Data[key]
	if !ok {
		return 0
	}
	switch v := val.(type) {
	case int64:
		return v
	case float64:
		// JSON round-trips through float64.
		return int64(v)
	case int:
		return int64(v)
	default:
		return 0
	}
}

func (s *SessionState) GetString(key string) string {
	if s.Data == nil {
		return ""
	}
	if str, ok := s.Data[key].(string); ok {
		return str
	}
	return ""
}
