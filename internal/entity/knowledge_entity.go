package entity

import (
	"time"

	"github.com/google/uuid"
)

type KnowledgeDocument struct {
	Id        uuid.UUID
	Title     string
	Content   string
	Source    string
	Category  string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// KnowledgeChunk is one searchable slice of a document, produced by the
// ingestion consumer.
type KnowledgeChunk struct {
	Id         uuid.UUID
	DocumentId uuid.UUID
	Content    string
	ChunkIndex int
	CreatedAt  time.Time
}
