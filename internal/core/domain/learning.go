package domain

import "time"

// LearningType classifies how a fact was captured.
type LearningType string

const (
	// LearningExplicit marks facts the user stated deliberately
	// ("actually, ...", "let me tell you ...").
	LearningExplicit LearningType = "explicit"

	// LearningImplicit marks facts inferred from declarative
	// statements the user did not flag as teaching.
	LearningImplicit LearningType = "implicit"

	// LearningCorrection marks facts that correct a prior answer
	// ("no, that's wrong, ...").
	LearningCorrection LearningType = "user_correction"
)

// Confidence grades how much a learned fact should be trusted.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Rank orders confidence grades for comparison; higher wins.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

// LearnedFact is a piece of knowledge captured from conversation.
type LearnedFact struct {
	// ID uniquely identifies the fact.
	ID string

	// Content is the fact's text as extracted.
	Content string

	// Topic is the intent the fact was captured under.
	Topic Intent

	// Type records how the fact was captured.
	Type LearningType

	// Confidence grades the fact's trustworthiness.
	Confidence Confidence

	// SessionID is the session the fact was learned in.
	SessionID string

	// RelatedTopics are additional intents the fact touches.
	RelatedTopics []Intent

	// UsageCount counts how often the fact was used in answers.
	UsageCount int

	// LastUsed is when the fact last contributed to an answer.
	LastUsed time.Time

	// Conflict records a detected contradiction with existing
	// knowledge, queued here for human review. Empty means none.
	Conflict string

	// Superseded marks facts replaced by a later correction. They
	// are kept for audit but excluded from retrieval.
	Superseded bool

	// CreatedAt is when the fact was captured.
	CreatedAt time.Time
}

// KnowledgeGap records a query the knowledge base could not answer.
type KnowledgeGap struct {
	// ID uniquely identifies the gap.
	ID string

	// Query is a representative raw form of the unanswered query.
	Query string

	// NormalizedQuery is the tokenized, joined form used to fold
	// repeats of the same question together.
	NormalizedQuery string

	// Intent is the intent detected for the query.
	Intent Intent

	// Frequency counts how many times the gap was hit.
	Frequency int

	// FirstAsked is when the gap was first recorded.
	FirstAsked time.Time

	// LastAsked is when the gap was most recently hit.
	LastAsked time.Time
}

// Conflict describes a learned fact contradicting existing knowledge.
type Conflict struct {
	// FactID is the incoming fact's id.
	FactID string

	// ExistingID is the id of the fact or entry it contradicts.
	ExistingID string

	// Reason says what contradicted: a negation pair or
	// differing numbers.
	Reason string
}
