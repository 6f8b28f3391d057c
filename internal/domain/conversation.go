package domain

// Role labels a conversation turn's author.
type Role string

const (
	// RoleUser marks a turn written by the student.
	RoleUser Role = "user"
	// RoleAssistant marks a turn written by the assistant.
	RoleAssistant Role = "assistant"
)

// Turn is one conversation message, consumed read-only.
type Turn struct {
	role    Role
	content string
}

// NewTurn creates a conversation turn.
func NewTurn(role Role, content string) Turn {
	return Turn{role: role, content: content}
}

// Role returns the turn author role.
func (t *Turn) Role() Role { return t.role }

// Content returns the turn text.
func (t *Turn) Content() string { return t.content }

// RecentTurns returns the last n turns, or all of them if fewer.
func RecentTurns(turns []Turn, n int) []Turn {
	if n <= 0 || len(turns) <= n {
		return turns
	}
	return turns[len(turns)-n:]
}

// TruncateText cuts s to at most limit runes.
func TruncateText(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
