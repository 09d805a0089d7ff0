package dto

import (
	"time"

	"github.com/google/uuid"
)

// SendTextRequest binds both JSON bodies and multipart forms; conversation_id
// stays a string so an absent form field does not fail parsing.
type SendTextRequest struct {
	Message        string `json:"message" form:"message" validate:"required"`
	ConversationId string `json:"conversation_id" form:"conversation_id"`
	UserId         string `json:"user_id" form:"user_id"`
	SessionId      string `json:"session_id" form:"session_id"`
	Language       string `json:"language" form:"language"`
}

type AnalyzeRequest struct {
	Text         string `json:"text" validate:"required"`
	Language     string `json:"language"`
	AnalysisType string `json:"analysis_type" validate:"omitempty,oneof=all emotion emergency medical_entities"`
}

type FeedbackRequest struct {
	ConversationId uuid.UUID `json:"conversation_id" validate:"required"`
	MessageId      uuid.UUID `json:"message_id" validate:"required"`
	FeedbackType   string    `json:"feedback_type" validate:"required,oneof=helpful not_helpful inaccurate unclear other"`
	Rating         int       `json:"rating" validate:"required,min=1,max=5"`
	Comments       string    `json:"comments"`
}

type FeedbackResponse struct {
	Id uuid.UUID `json:"id"`
}

type ConfidenceInfo struct {
	Score          float64 `json:"score"`
	Level          string  `json:"level"`
	Recommendation string  `json:"recommendation"`
}

type EmergencyInfo struct {
	IsEmergency        bool     `json:"is_emergency"`
	Level              string   `json:"level"`
	Confidence         float64  `json:"confidence"`
	RecommendedActions []string `json:"recommended_actions"`
}

type EmotionInfo struct {
	PrimaryEmotion  string   `json:"primary_emotion"`
	Intensity       float64  `json:"intensity"`
	Recommendations []string `json:"recommendations"`
}

type SourceInfo struct {
	Content string  `json:"content"`
	Score   float64 `json:"score"`
	Url     string  `json:"url,omitempty"`
}

// ChatResponse is the assistant reply envelope shared by the text, audio and
// image endpoints.
type ChatResponse struct {
	ConversationId  uuid.UUID           `json:"conversation_id"`
	MessageId       uuid.UUID           `json:"message_id"`
	Response        string              `json:"response"`
	Confidence      *ConfidenceInfo     `json:"confidence,omitempty"`
	Emergency       *EmergencyInfo      `json:"emergency,omitempty"`
	Emotion         *EmotionInfo        `json:"emotion,omitempty"`
	MedicalEntities map[string][]string `json:"medical_entities,omitempty"`
	Sources         []SourceInfo        `json:"sources,omitempty"`
	Language        string              `json:"language"`
	Timestamp       time.Time           `json:"timestamp"`
}

type AnalyzeResponse struct {
	Emergency       *EmergencyInfo      `json:"emergency"`
	Emotion         *EmotionInfo        `json:"emotion"`
	MedicalEntities map[string][]string `json:"medical_entities"`
	Language        string              `json:"language"`
}

type ConversationSummaryResponse struct {
	Id           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	MessageCount int64      `json:"message_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

type MessageResponse struct {
	Id         uuid.UUID       `json:"id"`
	Role       string          `json:"role"`
	Content    string          `json:"content"`
	InputKind  string          `json:"input_kind"`
	Language   string          `json:"language"`
	IsError    bool            `json:"is_error"`
	Confidence *ConfidenceInfo `json:"confidence,omitempty"`
	Emergency  *EmergencyInfo  `json:"emergency,omitempty"`
	Emotion    *EmotionInfo    `json:"emotion,omitempty"`
	Sources    []SourceInfo    `json:"sources,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

type ConversationHistoryResponse struct {
	Id       uuid.UUID         `json:"id"`
	Title    string            `json:"title"`
	Messages []MessageResponse `json:"messages"`
}

type LanguagesResponse struct {
	Languages []string `json:"languages"`
	Default   string   `json:"default"`
}

type TranscribeResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration_seconds,omitempty"`
}
