// Package index provides the in-memory inverted keyword index.
//
// The index is an immutable snapshot behind an atomic pointer. Rebuild
// constructs a complete replacement off to the side and swaps it in
// with a single store, so queries racing a rebuild see either the old
// snapshot or the new one, never a partial index.
package index

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/custodia-labs/caremind/internal/core/domain"
	"github.com/custodia-labs/caremind/internal/core/ports/driven"
	"github.com/custodia-labs/caremind/internal/textutil"
)

// Ensure Inverted implements the interface.
var _ driven.SearchIndex = (*Inverted)(nil)

// snapshot is one immutable index generation.
type snapshot struct {
	// postings maps a term to the ids of entries containing it.
	postings map[string][]string

	// terms holds all indexed terms, sorted, for prefix lookups.
	terms []string
}

// Inverted is the keyword index over knowledge entries.
type Inverted struct {
	current atomic.Pointer[snapshot]
}

// New creates an empty index. Candidates fails with ErrIndexNotReady
// until the first Rebuild.
func New() *Inverted {
	return &Inverted{}
}

// Rebuild replaces the active snapshot with one built from the given
// entries. Title, content, and tags all feed the postings.
func (i *Inverted) Rebuild(ctx context.Context, entries []domain.KnowledgeEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	postings := make(map[string][]string)
	for _, entry := range entries {
		text := entry.Title + " " + entry.Content + " " + strings.Join(entry.Tags, " ")
		for _, term := range textutil.UniqueTokens(text) {
			postings[term] = append(postings[term], entry.ID)
		}
	}

	terms := make([]string, 0, len(postings))
	for term := range postings {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	i.current.Store(&snapshot{postings: postings, terms: terms})
	return nil
}

// Candidates returns the union of entries matching any of the terms.
// Each candidate records which query terms hit it. Results are sorted
// by entry id so downstream ranking starts from a deterministic order.
func (i *Inverted) Candidates(ctx context.Context, terms []string) ([]domain.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := i.current.Load()
	if snap == nil {
		return nil, domain.ErrIndexNotReady
	}

	matched := make(map[string][]string)
	for _, term := range terms {
		for _, id := range snap.postings[term] {
			matched[id] = append(matched[id], term)
		}
	}

	out := make([]domain.Candidate, 0, len(matched))
	for id, hits := range matched {
		out = append(out, domain.Candidate{EntryID: id, MatchedTerms: hits})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].EntryID < out[b].EntryID })
	return out, nil
}

// Terms returns indexed terms with the given prefix, in sorted order.
func (i *Inverted) Terms(ctx context.Context, prefix string, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := i.current.Load()
	if snap == nil {
		return nil, domain.ErrIndexNotReady
	}

	prefix = strings.ToLower(prefix)
	start := sort.SearchStrings(snap.terms, prefix)

	var out []string
	for _, term := range snap.terms[start:] {
		if !strings.HasPrefix(term, prefix) {
			break
		}
		out = append(out, term)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// Ready reports whether a snapshot has been built.
func (i *Inverted) Ready() bool {
	return i.current.Load() != nil
}

// TermCount returns the number of distinct indexed terms.
func (i *Inverted) TermCount() int {
	snap := i.current.Load()
	if snap == nil {
		return 0
	}
	return len(snap.terms)
}
