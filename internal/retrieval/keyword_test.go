package retrieval

import (
	"context"
	"errors"
	"testing"

	"medichat/internal/entity"
	"medichat/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeKnowledgeRepository serves canned chunks and records the specs it was
// queried with.
type fakeKnowledgeRepository struct {
	chunks []*entity.KnowledgeChunk
	err    error
	specs  []specification.Specification
}

func (f *fakeKnowledgeRepository) CreateDocument(context.Context, *entity.KnowledgeDocument) error {
	return nil
}

func (f *fakeKnowledgeRepository) DeleteDocument(context.Context, uuid.UUID) error {
	return nil
}

func (f *fakeKnowledgeRepository) FindOneDocument(context.Context, ...specification.Specification) (*entity.KnowledgeDocument, error) {
	return nil, nil
}

func (f *fakeKnowledgeRepository) FindAllDocuments(context.Context, ...specification.Specification) ([]*entity.KnowledgeDocument, error) {
	return nil, nil
}

func (f *fakeKnowledgeRepository) CreateChunks(context.Context, []*entity.KnowledgeChunk) error {
	return nil
}

func (f *fakeKnowledgeRepository) DeleteChunksByDocumentId(context.Context, uuid.UUID) error {
	return nil
}

func (f *fakeKnowledgeRepository) FindChunks(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeChunk, error) {
	f.specs = specs
	return f.chunks, f.err
}

func (f *fakeKnowledgeRepository) CountChunks(context.Context, ...specification.Specification) (int64, error) {
	return int64(len(f.chunks)), nil
}

func chunk(content string) *entity.KnowledgeChunk {
	return &entity.KnowledgeChunk{Id: uuid.New(), Content: content}
}

func TestRetrieveOrdersByScore(t *testing.T) {
	repo := &fakeKnowledgeRepository{
		chunks: []*entity.KnowledgeChunk{
			chunk("General wellness advice about sleep and diet."),
			chunk("Chest pain can be a sign of a heart attack. Severe chest pain needs immediate attention."),
			chunk("Chest exercises strengthen the upper body."),
		},
	}
	r := NewKeywordRetriever(repo)

	results, err := r.Retrieve(context.Background(), "severe chest pain", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Contains(t, results[0].Chunk.Content, "heart attack",
		"the chunk covering every query term should rank first")
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestRetrieveHonorsTopK(t *testing.T) {
	repo := &fakeKnowledgeRepository{
		chunks: []*entity.KnowledgeChunk{
			chunk("fever and infection basics"),
			chunk("fever management at home"),
			chunk("fever in children"),
		},
	}
	r := NewKeywordRetriever(repo)

	results, err := r.Retrieve(context.Background(), "high fever", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestRetrieveEmptyQueryTermsSkipsRepository(t *testing.T) {
	repo := &fakeKnowledgeRepository{}
	r := NewKeywordRetriever(repo)

	results, err := r.Retrieve(context.Background(), "is it of a", 3)
	require.NoError(t, err)
	assert.Nil(t, results)
	assert.Nil(t, repo.specs, "no repository call should happen without key terms")
}

func TestRetrievePropagatesRepositoryError(t *testing.T) {
	repo := &fakeKnowledgeRepository{err: errors.New("db down")}
	r := NewKeywordRetriever(repo)

	_, err := r.Retrieve(context.Background(), "chest pain", 3)
	assert.Error(t, err)
}

func TestRetrieveDropsZeroScoreChunks(t *testing.T) {
	repo := &fakeKnowledgeRepository{
		chunks: []*entity.KnowledgeChunk{
			chunk("completely unrelated gardening notes"),
			chunk("migraine headache triggers and relief"),
		},
	}
	r := NewKeywordRetriever(repo)

	results, err := r.Retrieve(context.Background(), "migraine headache", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Chunk.Content, "migraine")
}

func TestScoreChunkCoverageDominates(t *testing.T) {
	terms := []string{"chest", "pain", "severe"}

	full := scoreChunk("severe chest pain explained", terms)
	partial := scoreChunk("pain pain pain pain pain", terms)

	assert.Greater(t, full, partial)
	assert.Zero(t, scoreChunk("nothing relevant here", terms))
	assert.Zero(t, scoreChunk("", terms))
}
