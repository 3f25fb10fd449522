package models

import "time"

// ChatRole identifies who produced a conversation turn
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
	RoleSystem    ChatRole = "system"
)

// Valid reports whether the role is one of the three supported values
func (r ChatRole) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// ChatTurn is a single message in a conversation. The caller resends the
// full history on each request; the server keeps no session state.
type ChatTurn struct {
	Role      ChatRole   `json:"role"`
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// ChatReply is the composed answer to a chat message
type ChatReply struct {
	Message     string                `json:"message"`
	AudioURL    *string               `json:"audio_url,omitempty"`
	Sources     []LegislativeDocument `json:"sources"`
	Suggestions []string              `json:"suggestions"`
}
