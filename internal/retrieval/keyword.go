// Package retrieval finds knowledge chunks relevant to a user question. It
// uses keyword overlap scoring over an ILIKE pre-filter, which keeps retrieval
// inside Postgres without an embedding dependency.
package retrieval

import (
	"context"
	"sort"
	"strings"

	"medichat/internal/analysis/textproc"
	"medichat/internal/entity"
	"medichat/internal/repository/contract"
	"medichat/internal/repository/specification"
)

type Result struct {
	Chunk *entity.KnowledgeChunk
	Score float64
}

type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]Result, error)
}

type KeywordRetriever struct {
	knowledgeRepository contract.KnowledgeRepository
	processor           *textproc.Processor
}

func NewKeywordRetriever(knowledgeRepository contract.KnowledgeRepository) *KeywordRetriever {
	return &KeywordRetriever{
		knowledgeRepository: knowledgeRepository,
		processor:           textproc.NewProcessor(),
	}
}

// Retrieve returns the topK best-matching chunks ordered by descending score.
// An empty result is not an error; the caller decides how to answer without
// evidence.
func (r *KeywordRetriever) Retrieve(ctx context.Context, query string, topK int) ([]Result, error) {
	terms := r.processor.ExtractKeyTerms(query)
	if len(terms) == 0 {
		return nil, nil
	}

	chunks, err := r.knowledgeRepository.FindChunks(ctx, specification.ChunkMatchesAnyTerm{Terms: terms})
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(chunks))
	for _, chunk := range chunks {
		score := scoreChunk(chunk.Content, terms)
		if score > 0 {
			results = append(results, Result{Chunk: chunk, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// scoreChunk blends term coverage (how many distinct query terms appear) with
// term density (how often they appear relative to chunk length). Coverage
// dominates so a chunk mentioning every symptom beats one repeating a single
// term.
func scoreChunk(content string, terms []string) float64 {
	lower := strings.ToLower(content)
	words := len(strings.Fields(lower))
	if words == 0 {
		return 0
	}

	matched := 0
	occurrences := 0
	for _, term := range terms {
		count := strings.Count(lower, term)
		if count > 0 {
			matched++
			occurrences += count
		}
	}
	if matched == 0 {
		return 0
	}

	coverage := float64(matched) / float64(len(terms))
	density := float64(occurrences) / float64(words)
	if density > 1 {
		density = 1
	}

	return 0.8*coverage + 0.2*density
}
