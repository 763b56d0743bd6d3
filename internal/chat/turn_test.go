package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTurn_UnmarshalFrontendShape(t *testing.T) {
	raw := `[
		{"type": "initial", "content": "Hi! Ask me anything."},
		{"type": "user", "content": "What do you build?"},
		{"type": "ai", "content": "Mostly web apps. Share your email?", "is_email_collection": true},
		{"role": "user", "text": "later"}
	]`

	var history []Turn
	require.NoError(t, json.Unmarshal([]byte(raw), &history))
	require.Len(t, history, 4)

	require.Equal(t, RoleAssistant, history[0].Role)
	require.Equal(t, RoleUser, history[1].Role)
	require.Equal(t, RoleAssistant, history[2].Role)
	require.True(t, history[2].IsEmailCollection)
	require.Equal(t, "later", history[3].Content)
}

func TestTurn_UnmarshalUnknownRole(t *testing.T) {
	for _, raw := range []string{
		`{"role":"system","content":"x"}`,
		`{"type":"initial","content":"x"}`,
		`{"content":"x"}`,
	} {
		var turn Turn
		require.NoError(t, json.Unmarshal([]byte(raw), &turn), raw)
		require.Equal(t, RoleAssistant, turn.Role, raw)
		require.Equal(t, "x", turn.Content)
	}
}

func TestParseRole(t *testing.T) {
	require.Equal(t, RoleUser, ParseRole("user"))
	require.Equal(t, RoleUser, ParseRole(" Human "))
	require.Equal(t, RoleAssistant, ParseRole("ai"))
	require.Equal(t, RoleAssistant, ParseRole("system"))
	require.Equal(t, RoleAssistant, ParseRole(""))
}

func TestRole_Label(t *testing.T) {
	require.Equal(t, "User", RoleUser.Label())
	require.Equal(t, "Assistant", RoleAssistant.Label())
}

func TestHistoryHelpers(t *testing.T) {
	history := []Turn{
		{Role: RoleAssistant, Content: "hello"},
		{Role: RoleUser, Content: "one"},
		{Role: RoleAssistant, Content: "email?", IsEmailCollection: true},
		{Role: RoleUser, Content: "two"},
	}

	require.True(t, AwaitingEmail(history))
	require.False(t, EmailCollected(history))
	require.Equal(t, 2, UserTurns(history))
	require.Equal(t, history[2:], Recent(history, 2))
	require.Equal(t, history, Recent(history, 10))
	require.Nil(t, Recent(history, 0))

	history[2].EmailCollected = true
	require.False(t, AwaitingEmail(history))
	require.True(t, EmailCollected(history))
	require.False(t, AwaitingEmail(nil))
}
