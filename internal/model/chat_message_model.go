package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChatMessage struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConversationId  uuid.UUID      `gorm:"type:uuid;not null;index"`
	Role            string         `gorm:"type:varchar(50);not null"`
	Content         string         `gorm:"type:text;not null"`
	InputKind       string         `gorm:"type:varchar(20);not null;default:text"`
	Language        string         `gorm:"type:varchar(20);not null;default:en"`
	IsError         bool           `gorm:"not null;default:false"`
	Confidence      datatypes.JSON `gorm:"type:jsonb"`
	Emergency       datatypes.JSON `gorm:"type:jsonb"`
	Emotion         datatypes.JSON `gorm:"type:jsonb"`
	Sources         datatypes.JSON `gorm:"type:jsonb"`
	MedicalEntities datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
