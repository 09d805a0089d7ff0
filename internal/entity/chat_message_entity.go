package entity

import (
	"time"

	"github.com/google/uuid"
)

// ConfidenceAnnotation mirrors the scorer output persisted with a message.
type ConfidenceAnnotation struct {
	Score          float64 `json:"score"`
	Level          string  `json:"level"`
	Recommendation string  `json:"recommendation"`
}

type EmergencyAnnotation struct {
	IsEmergency        bool     `json:"is_emergency"`
	Level              string   `json:"level"`
	Confidence         float64  `json:"confidence"`
	RecommendedActions []string `json:"recommended_actions"`
}

type EmotionAnnotation struct {
	PrimaryEmotion  string   `json:"primary_emotion"`
	Intensity       float64  `json:"intensity"`
	Recommendations []string `json:"recommendations"`
}

type SourceRef struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Score    float64           `json:"score,omitempty"`
	Url      string            `json:"url,omitempty"`
}

type ChatMessage struct {
	Id              uuid.UUID
	ConversationId  uuid.UUID
	Role            string
	Content         string
	InputKind       string
	Language        string
	IsError         bool
	Confidence      *ConfidenceAnnotation
	Emergency       *EmergencyAnnotation
	Emotion         *EmotionAnnotation
	Sources         []SourceRef
	MedicalEntities map[string][]string
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	DeletedAt       *time.Time
	IsDeleted       bool
}
