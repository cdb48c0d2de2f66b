package domain

import "time"

// Turn is one exchange inside a conversation.
type Turn struct {
	// ID uniquely identifies the turn.
	ID string

	// UserMessage is the user's query as received.
	UserMessage string

	// AgentResponse is the answer text returned.
	AgentResponse string

	// Intent is the intent detected for the query.
	Intent Intent

	// Confidence is the answer's confidence.
	Confidence float64

	// Sources lists the source files cited by the answer.
	Sources []string

	// Escalated records whether this turn triggered a hand-off.
	Escalated bool

	// Timestamp is when the turn completed.
	Timestamp time.Time
}

// Conversation is the per-session dialogue state.
type Conversation struct {
	// SessionID uniquely identifies the session.
	SessionID string

	// Turns holds the exchanges in order, oldest first.
	Turns []Turn

	// CurrentTopic is the intent of the most recent
	// non-follow-up turn. Empty until the first turn.
	CurrentTopic Intent

	// RelevantDocuments accumulates source files cited during the
	// session, deduplicated, most recent last.
	RelevantDocuments []string

	// EscalationCount counts low-confidence turns in this session.
	EscalationCount int

	// CreatedAt is when the session was opened.
	CreatedAt time.Time

	// LastActive is when the session last saw a turn. Sessions idle
	// past the TTL are eligible for eviction.
	LastActive time.Time
}

// Recent returns the last n turns, oldest first.
func (c *Conversation) Recent(n int) []Turn {
	if n <= 0 || len(c.Turns) == 0 {
		return nil
	}
	if len(c.Turns) <= n {
		return c.Turns
	}
	return c.Turns[len(c.Turns)-n:]
}
