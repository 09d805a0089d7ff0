package events

import (
	"time"

	"github.com/google/uuid"
)

// EmergencyDetectedEvent is published whenever the pipeline flags a user
// message as a medical emergency. Alert consumers fan it out to dashboards
// and on-call email.
type EmergencyDetectedEvent struct {
	ConversationId uuid.UUID
	MessageId      uuid.UUID
	UserId         string
	Level          string
	Confidence     float64
	Indicators     []string
	OccurredAt     time.Time
}

func NewEmergencyDetectedEvent(conversationId, messageId uuid.UUID, userId, level string, confidence float64, indicators []string) EmergencyDetectedEvent {
	return EmergencyDetectedEvent{
		ConversationId: conversationId,
		MessageId:      messageId,
		UserId:         userId,
		Level:          level,
		Confidence:     confidence,
		Indicators:     indicators,
		OccurredAt:     time.Now(),
	}
}

func (e EmergencyDetectedEvent) EventType() string {
	return "emergency_detected"
}

func (e EmergencyDetectedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"conversation_id": e.ConversationId.String(),
		"message_id":      e.MessageId.String(),
		"user_id":         e.UserId,
		"level":           e.Level,
		"confidence":      e.Confidence,
		"indicators":      e.Indicators,
		"occurred_at":     e.OccurredAt.Format(time.RFC3339),
	}
}

func (e EmergencyDetectedEvent) Timestamp() time.Time {
	return e.OccurredAt
}
