package client

import "time"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Input kinds.
const (
	KindText  = "text"
	KindAudio = "audio"
	KindImage = "image"
)

type Confidence struct {
	Score          float64 `json:"score"`
	Level          string  `json:"level"`
	Recommendation string  `json:"recommendation"`
}

type Emergency struct {
	IsEmergency        bool     `json:"is_emergency"`
	Level              string   `json:"level"`
	RecommendedActions []string `json:"recommended_actions"`
	Confidence         float64  `json:"confidence"`
}

type Emotion struct {
	PrimaryEmotion  string   `json:"primary_emotion"`
	Intensity       float64  `json:"intensity"`
	Recommendations []string `json:"recommendations"`
}

type Source struct {
	Content string  `json:"content"`
	Score   float64 `json:"score"`
	Url     string  `json:"url,omitempty"`
}

// Message is one turn in a conversation. Once appended to a session it is
// never mutated; corrections append a sibling instead.
type Message struct {
	Id              string              `json:"id"`
	Role            string              `json:"role"`
	Content         string              `json:"content"`
	Timestamp       time.Time           `json:"timestamp"`
	InputKind       string              `json:"input_kind"`
	Language        string              `json:"language"`
	Confidence      *Confidence         `json:"confidence,omitempty"`
	Emergency       *Emergency          `json:"emergency,omitempty"`
	Emotion         *Emotion            `json:"emotion,omitempty"`
	Sources         []Source            `json:"sources,omitempty"`
	MedicalEntities map[string][]string `json:"medical_entities,omitempty"`
	IsError         bool                `json:"is_error"`
}

// Response is the assistant reply payload returned by the chat endpoints.
type Response struct {
	ConversationId  string              `json:"conversation_id"`
	MessageId       string              `json:"message_id"`
	Response        string              `json:"response"`
	Confidence      *Confidence         `json:"confidence,omitempty"`
	Emergency       *Emergency          `json:"emergency,omitempty"`
	Emotion         *Emotion            `json:"emotion,omitempty"`
	MedicalEntities map[string][]string `json:"medical_entities,omitempty"`
	Sources         []Source            `json:"sources,omitempty"`
	Language        string              `json:"language"`
	Timestamp       time.Time           `json:"timestamp"`
}

// Conversation is a stored session fetched from the backend.
type Conversation struct {
	Id       string    `json:"id"`
	Title    string    `json:"title"`
	Messages []Message `json:"messages"`
}

type Feedback struct {
	ConversationId string `json:"conversation_id"`
	MessageId      string `json:"message_id"`
	FeedbackType   string `json:"feedback_type"`
	Rating         int    `json:"rating"`
	Comments       string `json:"comments,omitempty"`
}

type Transcription struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration_seconds,omitempty"`
}
