package service

import (
	"context"

	"medichat/internal/constant"
	"medichat/internal/pkg/logger"
	"medichat/internal/pkg/mailer"
	"medichat/internal/websocket"
	"medichat/pkg/events"
	pkgNats "medichat/pkg/nats"
)

type IAlertService interface {
	Start() error
}

// alertService fans emergency events out to websocket dashboards and, for
// critical levels, to the configured emergency contact email.
type alertService struct {
	subscriber            *pkgNats.Subscriber
	hub                   *websocket.Hub
	emailService          mailer.IEmailService
	emergencyContactEmail string
	logger                logger.ILogger
}

func NewAlertService(
	subscriber *pkgNats.Subscriber,
	hub *websocket.Hub,
	emailService mailer.IEmailService,
	emergencyContactEmail string,
	log logger.ILogger,
) IAlertService {
	return &alertService{
		subscriber:            subscriber,
		hub:                   hub,
		emailService:          emailService,
		emergencyContactEmail: emergencyContactEmail,
		logger:                log,
	}
}

func (s *alertService) Start() error {
	return s.subscriber.Subscribe("alerts."+constant.EventEmergencyDetected, "alert-service", s.handleEvent)
}

func (s *alertService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	alert := websocket.Alert{
		ConversationId: stringField(payload, "conversation_id"),
		MessageId:      stringField(payload, "message_id"),
		UserId:         stringField(payload, "user_id"),
		Level:          stringField(payload, "level"),
		OccurredAt:     stringField(payload, "occurred_at"),
	}
	if confidence, ok := payload["confidence"].(float64); ok {
		alert.Confidence = confidence
	}
	if raw, ok := payload["indicators"].([]interface{}); ok {
		for _, item := range raw {
			if ind, ok := item.(string); ok {
				alert.Indicators = append(alert.Indicators, ind)
			}
		}
	}

	s.hub.Broadcast(alert)

	s.logger.Info("AlertService", "emergency alert dispatched", map[string]interface{}{
		"conversation_id": alert.ConversationId,
		"level":           alert.Level,
	})

	if alert.Level == "critical" && s.emailService != nil && s.emergencyContactEmail != "" {
		// Email failure must not Nack the event; the websocket fan-out already
		// happened and a redelivery would duplicate alerts.
		if err := s.emailService.SendEmergencyAlert(s.emergencyContactEmail, alert.ConversationId, alert.Level, alert.Indicators); err != nil {
			s.logger.Error("AlertService", "failed to send emergency email", map[string]interface{}{"error": err})
		}
	}

	return nil
}

func stringField(payload map[string]interface{}, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}
