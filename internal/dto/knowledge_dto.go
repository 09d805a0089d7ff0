package dto

import (
	"time"

	"github.com/google/uuid"
)

type IngestDocumentRequest struct {
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content" validate:"required"`
	Source   string `json:"source"`
	Category string `json:"category"`
}

type IngestDocumentResponse struct {
	Id uuid.UUID `json:"id"`
}

// PublishIngestDocumentMessage is the pub/sub payload that triggers chunking
// of a newly ingested document.
type PublishIngestDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}

type KnowledgeDocumentResponse struct {
	Id         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Source     string     `json:"source"`
	Category   string     `json:"category"`
	ChunkCount int64      `json:"chunk_count"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}
