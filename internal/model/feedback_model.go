package model

import (
	"time"

	"github.com/google/uuid"
)

type Feedback struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConversationId uuid.UUID `gorm:"type:uuid;not null;index"`
	MessageId      uuid.UUID `gorm:"type:uuid;not null;index"`
	FeedbackType   string    `gorm:"type:varchar(20);not null"`
	Rating         int       `gorm:"not null"`
	Comments       string    `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}
