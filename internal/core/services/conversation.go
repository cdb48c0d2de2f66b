package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/caremind/internal/core/domain"
	"github.com/custodia-labs/caremind/internal/core/ports/driven"
	"github.com/custodia-labs/caremind/internal/core/ports/driving"
	"github.com/custodia-labs/caremind/internal/logger"
	"github.com/custodia-labs/caremind/internal/textutil"
)

// Ensure ConversationService implements the interface.
var _ driving.ConversationService = (*ConversationService)(nil)

// followUpMaxTokens is the query length at or below which a query is
// treated as a follow-up when a topic is already established.
const followUpMaxTokens = 3

// anaphora are pronouns that refer back to something already discussed.
var anaphora = map[string]struct{}{
	"it": {}, "that": {}, "this": {}, "they": {}, "them": {}, "those": {},
}

// ConversationService tracks per-session dialogue state.
type ConversationService struct {
	store  driven.ConversationStore
	config driven.ConfigStore

	// locks serializes turns within a session; different sessions
	// proceed concurrently.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewConversationService creates a new conversation service.
func NewConversationService(store driven.ConversationStore, config driven.ConfigStore) *ConversationService {
	return &ConversationService{
		store:  store,
		config: config,
		locks:  make(map[string]*sync.Mutex),
	}
}

// History returns a session's conversation.
func (s *ConversationService) History(ctx context.Context, sessionID string) (*domain.Conversation, error) {
	conv, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.expired(conv) {
		return nil, fmt.Errorf("%w: session %s", domain.ErrSessionExpired, sessionID)
	}
	return conv, nil
}

// Summary returns a hand-off note covering the session's recent turns.
func (s *ConversationService) Summary(ctx context.Context, sessionID string) (string, error) {
	conv, err := s.History(ctx, sessionID)
	if err != nil {
		return "", err
	}

	tun := s.tunables()
	var b strings.Builder
	fmt.Fprintf(&b, "Session %s", conv.SessionID)
	if conv.CurrentTopic != "" {
		fmt.Fprintf(&b, ", topic: %s", conv.CurrentTopic)
	}
	fmt.Fprintf(&b, ", %d turns", len(conv.Turns))
	if conv.EscalationCount > 0 {
		fmt.Fprintf(&b, ", %d low-confidence answers", conv.EscalationCount)
	}
	b.WriteString("\n")
	for _, turn := range conv.Recent(tun.ContextWindow) {
		fmt.Fprintf(&b, "- [%s] %s\n", turn.Intent, turn.UserMessage)
	}
	if len(conv.RelevantDocuments) > 0 {
		fmt.Fprintf(&b, "Sources consulted: %s\n", strings.Join(conv.RelevantDocuments, ", "))
	}
	return b.String(), nil
}

// lockSession takes the per-session lock and returns its release func.
func (s *ConversationService) lockSession(sessionID string) func() {
	s.mu.Lock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// getOrCreate returns the session's conversation, starting a fresh one
// when none exists or the existing one has idled past the TTL. Expired
// sessions are evicted lazily here rather than by a background sweep.
func (s *ConversationService) getOrCreate(ctx context.Context, sessionID string) (*domain.Conversation, error) {
	conv, err := s.store.Get(ctx, sessionID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		// New session below.
	case err != nil:
		return nil, err
	case s.expired(conv):
		logger.Debug("Session %s expired, starting fresh", sessionID)
		if err := s.store.Delete(ctx, sessionID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	default:
		return conv, nil
	}

	now := time.Now()
	return &domain.Conversation{
		SessionID:  sessionID,
		CreatedAt:  now,
		LastActive: now,
	}, nil
}

// recordTurn appends a completed turn and persists the conversation.
func (s *ConversationService) recordTurn(ctx context.Context, conv *domain.Conversation, turn domain.Turn, followUp bool) error {
	turn.ID = uuid.NewString()
	turn.Timestamp = time.Now()
	conv.Turns = append(conv.Turns, turn)
	conv.LastActive = turn.Timestamp

	// Follow-ups stay on the established topic.
	if !followUp {
		conv.CurrentTopic = turn.Intent
	}
	for _, src := range turn.Sources {
		if !contains(conv.RelevantDocuments, src) {
			conv.RelevantDocuments = append(conv.RelevantDocuments, src)
		}
	}
	return s.store.Save(ctx, conv)
}

// end closes a session and discards its state.
func (s *ConversationService) end(ctx context.Context, sessionID string) error {
	err := s.store.Delete(ctx, sessionID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	s.mu.Lock()
	delete(s.locks, sessionID)
	s.mu.Unlock()
	return nil
}

// isFollowUp reports whether a query leans on established context: a
// very short query, or one opening with a back-reference, when the
// session already has a topic.
func (s *ConversationService) isFollowUp(conv *domain.Conversation, query string) bool {
	if conv.CurrentTopic == "" || len(conv.Turns) == 0 {
		return false
	}
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return false
	}
	if len(tokens) <= followUpMaxTokens {
		return true
	}
	for _, tok := range tokens {
		if _, ok := anaphora[strings.Trim(tok, ".,!?")]; ok {
			return true
		}
	}
	return false
}

// contextTerms extracts search terms from the recent turns of a
// conversation, to augment a follow-up query.
func (s *ConversationService) contextTerms(conv *domain.Conversation) []string {
	tun := s.tunables()
	seen := make(map[string]struct{})
	var terms []string
	for _, turn := range conv.Recent(tun.ContextWindow) {
		for _, term := range textutil.UniqueTokens(turn.UserMessage) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			terms = append(terms, term)
		}
	}
	return terms
}

func (s *ConversationService) expired(conv *domain.Conversation) bool {
	ttl := s.tunables().SessionTTL
	return time.Since(conv.LastActive) > ttl
}

func (s *ConversationService) tunables() domain.Tunables {
	if s.config == nil {
		return domain.DefaultTunables()
	}
	return s.config.Tunables()
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
