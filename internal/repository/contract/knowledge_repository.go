package contract

import (
	"context"

	"medichat/internal/entity"
	"medichat/internal/repository/specification"

	"github.com/google/uuid"
)

type KnowledgeRepository interface {
	CreateDocument(ctx context.Context, document *entity.KnowledgeDocument) error
	DeleteDocument(ctx context.Context, id uuid.UUID) error
	FindOneDocument(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeDocument, error)
	FindAllDocuments(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeDocument, error)
	CreateChunks(ctx context.Context, chunks []*entity.KnowledgeChunk) error
	DeleteChunksByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindChunks(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeChunk, error)
	CountChunks(ctx context.Context, specs ...specification.Specification) (int64, error)
}
