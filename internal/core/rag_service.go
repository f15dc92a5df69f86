package core

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/davidspringean12/ai-mazed/internal/store"
	"github.com/davidspringean12/ai-mazed/internal/utils"
)

// abbreviations maps shorthand common in student questions to the wording
// used by the faculty documents. Expansions are appended to the query before
// embedding so that retrieval sees both forms.
var abbreviations = []struct {
	abbrev    string
	expansion string
}{
	{"fse", "Facultatea de Științe Economice"},
	{"ulbs", "Universitatea Lucian Blaga Sibiu"},
	{"licenta", "lucrare de licență"},
	{"master", "lucrare de master disertație"},
	{"camin", "cămin dormitor cazare"},
	{"bursa", "bursă financiară"},
	{"erasmus", "erasmus mobilitate internațională"},
	{"orar", "orar program cursuri"},
	{"restanta", "restanță examen"},
	{"sesiune", "sesiune examen"},
	{"admitere", "admitere înmatriculare"},
	{"taxa", "taxă școlarizare"},
}

// EmbeddingSource is the read side of the corpus.
type EmbeddingSource interface {
	GetAllEmbeddings() ([]store.EmbeddingRecord, error)
}

// RAGService holds an in-memory snapshot of the embedded corpus and performs
// nearest-neighbor retrieval over it. The corpus is small and static, so a
// linear scan is deliberate; there is no index structure to maintain.
type RAGService struct {
	source EmbeddingSource

	mu      sync.RWMutex
	records []store.EmbeddingRecord
}

func NewRAGService(source EmbeddingSource) (*RAGService, error) {
	s := &RAGService{source: source}
	if err := s.Reload(); err != nil {
		return nil, fmt.Errorf("failed to load embeddings for RAG service: %w", err)
	}
	if s.Count() == 0 {
		log.Println("Warning: RAGService initialized with no embeddings. Ensure the corpus has been ingested.")
	} else {
		log.Printf("RAGService initialized with %d embeddings.", s.Count())
	}
	return s, nil
}

// Reload replaces the corpus snapshot from the store.
func (s *RAGService) Reload() error {
	records, err := s.source.GetAllEmbeddings()
	if err != nil {
		return fmt.Errorf("failed to reload embeddings: %w", err)
	}
	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	return nil
}

// Count returns the number of records in the current snapshot.
func (s *RAGService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Records returns the current corpus snapshot.
func (s *RAGService) Records() []store.EmbeddingRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// ExpandQuery appends expansions of known abbreviations to the raw query.
// The raw text always stays first; the expansions only widen the embedding.
func ExpandQuery(query string) string {
	lower := strings.ToLower(query)
	expanded := []string{query}
	for _, entry := range abbreviations {
		if strings.Contains(lower, entry.abbrev) {
			expanded = append(expanded, entry.expansion)
		}
	}
	return strings.Join(expanded, " ")
}

// FindBestMatch scans candidates linearly and returns the record most similar
// to the query by cosine similarity. Ties keep the first-encountered record.
// Candidates with a non-finite similarity (degenerate vectors) never win a
// comparison; one is returned only when nothing scored a real value.
// An empty candidate set is ErrNoData.
func FindBestMatch(query []float32, candidates []store.EmbeddingRecord) (*store.EmbeddingRecord, error) {
	if len(candidates) == 0 {
		return nil, ErrNoData
	}

	var best *store.EmbeddingRecord
	maxSimilarity := float32(-1)

	for i := range candidates {
		similarity, err := utils.CosineSimilarity(query, candidates[i].Embedding)
		if err != nil {
			log.Printf("Error calculating similarity for record %d: %v. Skipping.", candidates[i].ID, err)
			continue
		}
		if !utils.IsFinite(similarity) {
			continue
		}
		if best == nil || similarity > maxSimilarity {
			best = &candidates[i]
			maxSimilarity = similarity
		}
	}

	if best == nil {
		// Everything was degenerate or mismatched; keep the deterministic choice.
		best = &candidates[0]
	}
	return best, nil
}
