package mapper

import (
	"encoding/json"
	"time"

	"medichat/internal/entity"
	"medichat/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Conversation Mappers

func (m *ChatMapper) ConversationToEntity(c *model.Conversation) *entity.Conversation {
	if c == nil {
		return nil
	}

	var deletedAt *time.Time
	if c.DeletedAt.Valid {
		t := c.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.Conversation{
		Id:        c.Id,
		UserId:    c.UserId,
		SessionId: c.SessionId,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: c.DeletedAt.Valid,
	}
}

func (m *ChatMapper) ConversationToModel(c *entity.Conversation) *model.Conversation {
	if c == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if c.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *c.DeletedAt, Valid: true}
	} else if c.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.Conversation{
		Id:        c.Id,
		UserId:    c.UserId,
		SessionId: c.SessionId,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

// Message Mappers
//
// Annotations travel as jsonb columns; a marshal failure degrades to a null
// column rather than failing the write.

func (m *ChatMapper) ChatMessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}

	var deletedAt *time.Time
	if msg.DeletedAt.Valid {
		t := msg.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !msg.UpdatedAt.IsZero() {
		t := msg.UpdatedAt
		updatedAt = &t
	}

	e := &entity.ChatMessage{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		Role:           msg.Role,
		Content:        msg.Content,
		InputKind:      msg.InputKind,
		Language:       msg.Language,
		IsError:        msg.IsError,
		CreatedAt:      msg.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      msg.DeletedAt.Valid,
	}

	if len(msg.Confidence) > 0 {
		var conf entity.ConfidenceAnnotation
		if err := json.Unmarshal(msg.Confidence, &conf); err == nil {
			e.Confidence = &conf
		}
	}
	if len(msg.Emergency) > 0 {
		var emg entity.EmergencyAnnotation
		if err := json.Unmarshal(msg.Emergency, &emg); err == nil {
			e.Emergency = &emg
		}
	}
	if len(msg.Emotion) > 0 {
		var emo entity.EmotionAnnotation
		if err := json.Unmarshal(msg.Emotion, &emo); err == nil {
			e.Emotion = &emo
		}
	}
	if len(msg.Sources) > 0 {
		var sources []entity.SourceRef
		if err := json.Unmarshal(msg.Sources, &sources); err == nil {
			e.Sources = sources
		}
	}
	if len(msg.MedicalEntities) > 0 {
		var ents map[string][]string
		if err := json.Unmarshal(msg.MedicalEntities, &ents); err == nil {
			e.MedicalEntities = ents
		}
	}

	return e
}

func (m *ChatMapper) ChatMessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if msg.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *msg.DeletedAt, Valid: true}
	} else if msg.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if msg.UpdatedAt != nil {
		updatedAt = *msg.UpdatedAt
	}

	mm := &model.ChatMessage{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		Role:           msg.Role,
		Content:        msg.Content,
		InputKind:      msg.InputKind,
		Language:       msg.Language,
		IsError:        msg.IsError,
		CreatedAt:      msg.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}

	mm.Confidence = marshalJSON(msg.Confidence)
	mm.Emergency = marshalJSON(msg.Emergency)
	mm.Emotion = marshalJSON(msg.Emotion)
	if len(msg.Sources) > 0 {
		mm.Sources = marshalJSON(msg.Sources)
	}
	if len(msg.MedicalEntities) > 0 {
		mm.MedicalEntities = marshalJSON(msg.MedicalEntities)
	}

	return mm
}

func marshalJSON(v interface{}) datatypes.JSON {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	// Typed nil pointers marshal to the literal "null"; keep the column empty instead.
	if string(data) == "null" {
		return nil
	}
	return datatypes.JSON(data)
}

// Feedback Mappers

func (m *ChatMapper) FeedbackToModel(f *entity.Feedback) *model.Feedback {
	if f == nil {
		return nil
	}
	return &model.Feedback{
		Id:             f.Id,
		ConversationId: f.ConversationId,
		MessageId:      f.MessageId,
		FeedbackType:   f.FeedbackType,
		Rating:         f.Rating,
		Comments:       f.Comments,
		CreatedAt:      f.CreatedAt,
	}
}

func (m *ChatMapper) FeedbackToEntity(f *model.Feedback) *entity.Feedback {
	if f == nil {
		return nil
	}
	return &entity.Feedback{
		Id:             f.Id,
		ConversationId: f.ConversationId,
		MessageId:      f.MessageId,
		FeedbackType:   f.FeedbackType,
		Rating:         f.Rating,
		Comments:       f.Comments,
		CreatedAt:      f.CreatedAt,
	}
}
