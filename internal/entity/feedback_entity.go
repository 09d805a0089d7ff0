package entity

import (
	"time"

	"github.com/google/uuid"
)

type Feedback struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	MessageId      uuid.UUID
	FeedbackType   string
	Rating         int
	Comments       string
	CreatedAt      time.Time
}
