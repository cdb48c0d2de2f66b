package domain

import "time"

// Tunables holds the engine's behavioural knobs. Stored in the TOML
// config file; every field has a working default.
type Tunables struct {
	// MinConfidence is the floor below which an answer escalates.
	MinConfidence float64

	// HighConfidence marks answers confident enough to skip the
	// "this may not fully answer" qualifier.
	HighConfidence float64

	// TopK is how many ranked results retrieval returns.
	TopK int

	// ContextWindow is how many recent turns feed follow-up
	// resolution and the context summary.
	ContextWindow int

	// EscalationCap is the per-session count of low-confidence
	// turns that forces a hand-off.
	EscalationCap int

	// EscalationKeywords force a hand-off when present in a query.
	EscalationKeywords []string

	// SessionTTL is how long an idle session survives before
	// eviction.
	SessionTTL time.Duration

	// RecencyHalfLifeDays controls the exponential recency decay
	// in ranking.
	RecencyHalfLifeDays float64
}

// DefaultTunables returns tunables with working defaults.
func DefaultTunables() Tunables {
	return Tunables{
		MinConfidence:  0.3,
		HighConfidence: 0.8,
		TopK:           5,
		ContextWindow:  3,
		EscalationCap:  3,
		EscalationKeywords: []string{
			"human", "agent", "representative", "person",
			"speak to someone", "talk to someone", "operator",
			"complaint", "emergency",
		},
		SessionTTL:          time.Hour,
		RecencyHalfLifeDays: 180,
	}
}

// Clamped returns a copy with out-of-range values pulled back to
// their defaults. Loaded config files pass through this.
func (t Tunables) Clamped() Tunables {
	def := DefaultTunables()
	if t.MinConfidence <= 0 || t.MinConfidence >= 1 {
		t.MinConfidence = def.MinConfidence
	}
	if t.HighConfidence <= t.MinConfidence || t.HighConfidence > 1 {
		t.HighConfidence = def.HighConfidence
	}
	if t.TopK <= 0 {
		t.TopK = def.TopK
	}
	if t.ContextWindow <= 0 {
		t.ContextWindow = def.ContextWindow
	}
	if t.EscalationCap <= 0 {
		t.EscalationCap = def.EscalationCap
	}
	if len(t.EscalationKeywords) == 0 {
		t.EscalationKeywords = def.EscalationKeywords
	}
	if t.SessionTTL <= 0 {
		t.SessionTTL = def.SessionTTL
	}
	if t.RecencyHalfLifeDays <= 0 {
		t.RecencyHalfLifeDays = def.RecencyHalfLifeDays
	}
	return t
}
