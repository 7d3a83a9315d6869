package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionMUSRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	session := Session{
		Id:    IDFromContent("test-session"),
		Title: "Streit über Hausarbeit",
		Messages: []ChatMessage{
			{Role: RoleUser, Content: "Mein Partner hört mir nie zu."},
			{Role: RoleAssistant, Content: "Das klingt nach einer Verallgemeinerung."},
		},
		CreatedAt: now.Add(-time.Hour),
		UpdatedAt: now,
	}

	buf := make([]byte, SessionMUS.Size(session))
	n := SessionMUS.Marshal(session, buf)
	require.Equal(t, len(buf), n, "marshal should fill the sized buffer exactly")

	decoded, read, err := SessionMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, n, read)
	assert.Equal(t, session.Id, decoded.Id)
	assert.Equal(t, session.Title, decoded.Title)
	assert.Equal(t, session.Messages, decoded.Messages)
	assert.True(t, session.CreatedAt.Equal(decoded.CreatedAt))
	assert.True(t, session.UpdatedAt.Equal(decoded.UpdatedAt))
}

func TestSessionMUSEmptyMessages(t *testing.T) {
	session := Session{
		Id:        42,
		Title:     "Leer",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	buf := make([]byte, SessionMUS.Size(session))
	SessionMUS.Marshal(session, buf)

	decoded, _, err := SessionMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Empty(t, decoded.Messages)
}

func TestChatMessageMUSRejectsInvalidRole(t *testing.T) {
	m := ChatMessage{Role: Role(99), Content: "x"}

	buf := make([]byte, ChatMessageMUS.Size(m))
	ChatMessageMUS.Marshal(m, buf)

	_, _, err := ChatMessageMUS.Unmarshal(buf)
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestIDMUSRoundTrip(t *testing.T) {
	ids := []ID{0, 1, 255, 256, IDFromContent("beliebig"), ID(1) << 63}

	for _, id := range ids {
		buf := make([]byte, IDMUS.Size(id))
		IDMUS.Marshal(id, buf)

		decoded, _, err := IDMUS.Unmarshal(buf)
		require.NoError(t, err)
		assert.Equal(t, id, decoded)
	}
}
