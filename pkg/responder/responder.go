package responder

import (
	"context"

	"medichat/internal/entity"
)

// Request carries everything the responder may use to compose an answer.
type Request struct {
	Query     string
	Language  string
	Sources   []entity.SourceRef
	Emergency *entity.EmergencyAnnotation
	Emotion   *entity.EmotionAnnotation
}

// Responder defines the contract for any answer-generation backend.
type Responder interface {
	Respond(ctx context.Context, req Request) (string, error)
}
