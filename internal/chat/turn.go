package chat

import (
	"encoding/json"
	"strings"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ParseRole maps the role names used by clients onto a Role.
// Anything that is not a user turn is treated as the assistant; the portfolio
// frontend labels model turns "ai" and its greeting "initial".
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user", "human":
		return RoleUser
	default:
		return RoleAssistant
	}
}

// Label is the speaker prefix used when a turn is rendered into a prompt.
func (r Role) Label() string {
	if r == RoleUser {
		return "User"
	}
	return "Assistant"
}

// Turn is one message in the conversation history supplied by the client.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// IsEmailCollection marks an assistant turn that asked for an address.
	IsEmailCollection bool `json:"is_email_collection,omitempty"`

	// EmailCollected marks a turn after which an address was recorded.
	EmailCollected bool `json:"email_collected,omitempty"`
}

type turnJSON struct {
	Role              string `json:"role"`
	Type              string `json:"type"`
	Content           string `json:"content"`
	Text              string `json:"text"`
	IsEmailCollection bool   `json:"is_email_collection"`
	EmailCollected    bool   `json:"email_collected"`
}

// UnmarshalJSON accepts either "role" or the frontend's "type" field, and
// "content" or "text" for the message body.
func (t *Turn) UnmarshalJSON(data []byte) error {
	var raw turnJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	name := raw.Role
	if name == "" {
		name = raw.Type
	}
	role := ParseRole(name)

	content := raw.Content
	if content == "" {
		content = raw.Text
	}

	*t = Turn{
		Role:              role,
		Content:           content,
		IsEmailCollection: raw.IsEmailCollection,
		EmailCollected:    raw.EmailCollected,
	}
	return nil
}

// EmailCollected reports whether any turn in history records a collected address.
func EmailCollected(history []Turn) bool {
	for _, t := range history {
		if t.EmailCollected {
			return true
		}
	}
	return false
}

// AwaitingEmail reports whether the most recent assistant turn asked for an
// address that has not been given yet.
func AwaitingEmail(history []Turn) bool {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role != RoleAssistant {
			continue
		}
		return history[i].IsEmailCollection && !history[i].EmailCollected
	}
	return false
}

// UserTurns counts the user turns in history.
func UserTurns(history []Turn) int {
	n := 0
	for _, t := range history {
		if t.Role == RoleUser {
			n++
		}
	}
	return n
}

// Recent returns the last n turns of history.
func Recent(history []Turn, n int) []Turn {
	if n <= 0 {
		return nil
	}
	if len(history) > n {
		return history[len(history)-n:]
	}
	return history
}
