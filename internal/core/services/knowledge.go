package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/caremind/internal/core/domain"
	"github.com/custodia-labs/caremind/internal/core/ports/driven"
	"github.com/custodia-labs/caremind/internal/core/ports/driving"
	"github.com/custodia-labs/caremind/internal/logger"
)

// Ensure KnowledgeService implements the interface.
var _ driving.KnowledgeService = (*KnowledgeService)(nil)

// Knowledge directory layout, relative to the knowledge dir.
const (
	jsonSubdir     = "json"
	documentSubdir = "documents"

	contentSuffix  = "_content.txt"
	metadataSuffix = "_metadata.json"
)

// KnowledgeService loads and queries the unified knowledge base.
type KnowledgeService struct {
	store      driven.KnowledgeStore
	index      driven.SearchIndex
	classifier driven.DocumentClassifier
	parsers    driven.ParserRegistry
	config     driven.ConfigStore
	learning   driven.LearningStore

	// loadMu serializes loads; concurrent queries keep running
	// against the previous index snapshot meanwhile.
	loadMu sync.Mutex
}

// NewKnowledgeService creates a new knowledge service.
// The learning store is optional; without it Stats omits learned counts.
func NewKnowledgeService(
	store driven.KnowledgeStore,
	index driven.SearchIndex,
	classifier driven.DocumentClassifier,
	parsers driven.ParserRegistry,
	config driven.ConfigStore,
) *KnowledgeService {
	return &KnowledgeService{
		store:      store,
		index:      index,
		classifier: classifier,
		parsers:    parsers,
		config:     config,
	}
}

// SetLearningStore sets the learning store for Stats enrichment.
func (s *KnowledgeService) SetLearningStore(ls driven.LearningStore) {
	s.learning = ls
}

// jsonRecord is the on-disk shape of a hand-authored knowledge file.
type jsonRecord struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags"`
	Company   string   `json:"company_id"`
	Priority  string   `json:"priority"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

// docMetadata is the sidecar metadata of an extracted document.
type docMetadata struct {
	Title     string   `json:"title"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags"`
	Company   string   `json:"company_id"`
	CreatedAt string   `json:"created_at"`
}

// LoadAll ingests every knowledge source under dir: JSON records from
// dir/json plus extracted document text from dir/documents. Entries
// with the same derived id are replaced, last write wins, and every
// overwrite is logged. The search index is rebuilt and swapped in
// atomically once loading completes; queries racing the load see the
// previous snapshot.
func (s *KnowledgeService) LoadAll(ctx context.Context, dir string) (*domain.LoadStats, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	logger.Section("Knowledge Load")
	logger.Info("Loading knowledge from %s", dir)

	stats := &domain.LoadStats{}
	categories := make(map[string]struct{})

	if err := s.loadJSON(ctx, filepath.Join(dir, jsonSubdir), stats, categories); err != nil {
		return nil, err
	}
	if err := s.loadDocuments(ctx, filepath.Join(dir, documentSubdir), stats, categories); err != nil {
		return nil, err
	}

	stats.Total = stats.JSONEntries + stats.ParsedEntries
	for c := range categories {
		stats.Categories = append(stats.Categories, c)
	}
	sort.Strings(stats.Categories)

	if err := s.rebuildIndex(ctx); err != nil {
		return nil, err
	}

	logger.Info("Loaded %d entries (%d json, %d parsed, %d overwrites)",
		stats.Total, stats.JSONEntries, stats.ParsedEntries, stats.Overwrites)
	return stats, nil
}

// Search returns ranked results for a raw query.
func (s *KnowledgeService) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchResult{}, nil
	}
	tun := s.tunables()
	if limit <= 0 {
		limit = tun.TopK
	}

	q := processQuery(query)
	logger.Debug("Query terms: %v, expanded: %v, intent: %s", q.Terms, q.Expanded, q.Intent)

	results, err := s.retrieve(ctx, q, tun)
	if err != nil {
		return nil, err
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// retrieve runs the index lookup, hydration, and ranking for an
// already-processed query. Shared with the assistant orchestration.
func (s *KnowledgeService) retrieve(ctx context.Context, q processedQuery, tun domain.Tunables) ([]domain.SearchResult, error) {
	candidates, err := s.index.Candidates(ctx, q.Expanded)
	if err != nil {
		return nil, err
	}
	logger.Debug("Index candidates: %d", len(candidates))

	inputs := make([]rankInput, 0, len(candidates))
	for _, cand := range candidates {
		entry, err := s.store.Get(ctx, cand.EntryID)
		if err != nil {
			// Index lags the store briefly after deletes; skip.
			logger.Warn("Candidate %s not in store: %v", cand.EntryID, err)
			continue
		}
		inputs = append(inputs, rankInput{Entry: *entry, MatchedTerms: cand.MatchedTerms})
	}

	return rank(inputs, q, time.Now(), tun.RecencyHalfLifeDays), nil
}

// Suggest returns indexed-term completions for a prefix.
func (s *KnowledgeService) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, nil
	}
	return s.index.Terms(ctx, prefix, limit)
}

// Stats summarises the live knowledge base.
func (s *KnowledgeService) Stats(ctx context.Context) (*domain.KnowledgeStats, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.KnowledgeStats{
		TotalEntries: total,
		ByCategory:   make(map[domain.DocumentType]int),
	}
	for _, t := range domain.DocumentTypes() {
		entries, err := s.store.ListByCategory(ctx, t)
		if err != nil {
			return nil, err
		}
		if len(entries) > 0 {
			stats.ByCategory[t] = len(entries)
		}
	}

	if s.index.Ready() {
		terms, err := s.index.Terms(ctx, "", 0)
		if err != nil {
			return nil, err
		}
		stats.IndexedTerms = len(terms)
	}

	if s.learning != nil {
		facts, err := s.learning.ListFacts(ctx)
		if err != nil {
			return nil, err
		}
		stats.LearnedFacts = len(facts)
		gaps, err := s.learning.ListGaps(ctx)
		if err != nil {
			return nil, err
		}
		stats.KnowledgeGaps = len(gaps)
	}
	return stats, nil
}

// loadJSON ingests hand-authored JSON records. Malformed files are
// skipped with a warning rather than failing the whole load.
func (s *KnowledgeService) loadJSON(ctx context.Context, dir string, stats *domain.LoadStats, categories map[string]struct{}) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No JSON knowledge directory at %s", dir)
			return nil
		}
		return fmt.Errorf("%w: reading %s: %v", domain.ErrIngestion, dir, err)
	}

	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, f.Name()))
		if err != nil {
			logger.Warn("Skipping %s: %v", f.Name(), err)
			continue
		}
		var rec jsonRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			logger.Warn("Skipping malformed JSON %s: %v", f.Name(), err)
			continue
		}
		if strings.TrimSpace(rec.Content) == "" {
			logger.Warn("Skipping %s: empty content", f.Name())
			continue
		}

		category, err := domain.ParseDocumentType(rec.Category)
		if err != nil {
			if rec.Category != "" {
				logger.Warn("Reclassifying %s: %v", f.Name(), err)
			}
			category = s.classifier.Classify(f.Name(), rec.Content).Type
		}

		entry := domain.KnowledgeEntry{
			ID:         rec.ID,
			Title:      rec.Title,
			Content:    rec.Content,
			Category:   category,
			Tags:       rec.Tags,
			SourceType: domain.SourceJSON,
			SourceFile: f.Name(),
			Priority:   rec.Priority,
			CreatedAt:  parseTime(rec.CreatedAt),
			UpdatedAt:  parseTime(rec.UpdatedAt),
		}
		if entry.ID == "" {
			entry.ID = domain.EntryID(f.Name(), rec.Company, rec.Content)
		}
		if entry.Title == "" {
			entry.Title = strings.TrimSuffix(f.Name(), ".json")
		}

		if err := s.upsert(ctx, &entry, stats); err != nil {
			return err
		}
		stats.JSONEntries++
		categories[string(entry.Category)] = struct{}{}
	}
	return nil
}

// loadDocuments ingests extracted document text. Each document is a
// <name>_content.txt plus <name>_metadata.json pair; the content is
// classified, parsed into sections, and each section becomes one entry.
func (s *KnowledgeService) loadDocuments(ctx context.Context, dir string, stats *domain.LoadStats, categories map[string]struct{}) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No document directory at %s", dir)
			return nil
		}
		return fmt.Errorf("%w: reading %s: %v", domain.ErrIngestion, dir, err)
	}

	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), contentSuffix) {
			continue
		}
		docName := strings.TrimSuffix(f.Name(), contentSuffix)

		content, err := os.ReadFile(filepath.Join(dir, f.Name()))
		if err != nil {
			logger.Warn("Skipping %s: %v", f.Name(), err)
			continue
		}

		var meta docMetadata
		metaPath := filepath.Join(dir, docName+metadataSuffix)
		if data, err := os.ReadFile(metaPath); err == nil {
			if err := json.Unmarshal(data, &meta); err != nil {
				logger.Warn("Ignoring malformed metadata %s: %v", metaPath, err)
				meta = docMetadata{}
			}
		} else {
			logger.Warn("Missing metadata for document %s", docName)
		}
		if meta.Title == "" {
			meta.Title = docName
		}

		text := string(content)
		var cls domain.Classification
		if t, err := domain.ParseDocumentType(meta.Category); err == nil {
			cls = domain.Classification{Type: t}
		} else {
			if meta.Category != "" {
				logger.Warn("Reclassifying %s: %v", docName, err)
			}
			cls = s.classifier.Classify(meta.Title, text)
			logger.Debug("Classified %s as %s (%.2f, signals %v)",
				docName, cls.Type, cls.Confidence, cls.Signals)
		}

		sections, err := s.parsers.Parse(ctx, cls.Type, meta.Title, text)
		if err != nil {
			return fmt.Errorf("%w: parsing %s: %v", domain.ErrIngestion, docName, err)
		}

		created := parseTime(meta.CreatedAt)
		for _, section := range sections {
			entry := domain.KnowledgeEntry{
				ID:         domain.EntryID(meta.Title, meta.Company, section.Content),
				Title:      section.Title,
				Content:    section.Content,
				Category:   cls.Type,
				Tags:       append(append([]string{}, meta.Tags...), string(section.Type)),
				SourceType: domain.SourceDocument,
				SourceFile: meta.Title,
				CreatedAt:  created,
				UpdatedAt:  time.Now(),
			}
			if err := s.upsert(ctx, &entry, stats); err != nil {
				return err
			}
			stats.ParsedEntries++
			categories[string(cls.Type)] = struct{}{}
		}
	}
	return nil
}

func (s *KnowledgeService) upsert(ctx context.Context, entry *domain.KnowledgeEntry, stats *domain.LoadStats) error {
	overwrote, err := s.store.Upsert(ctx, entry)
	if err != nil {
		return fmt.Errorf("%w: storing entry %s: %v", domain.ErrIngestion, entry.ID, err)
	}
	if overwrote {
		stats.Overwrites++
		logger.Info("Overwrote entry %s (%s) from %s", entry.ID, entry.Title, entry.SourceFile)
	}
	return nil
}

// rebuildIndex rebuilds the search index from the full store.
func (s *KnowledgeService) rebuildIndex(ctx context.Context) error {
	entries, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	if err := s.index.Rebuild(ctx, entries); err != nil {
		return err
	}
	logger.Debug("Index rebuilt over %d entries", len(entries))
	return nil
}

func (s *KnowledgeService) tunables() domain.Tunables {
	if s.config == nil {
		return domain.DefaultTunables()
	}
	return s.config.Tunables()
}

// parseTime parses an RFC3339 timestamp, returning zero on failure.
func parseTime(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}
	}
	return t
}
