package mailer

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendEmergencyAlert(toEmail, conversationId, level string, indicators []string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (s *emailService) SendEmergencyAlert(toEmail, conversationId, level string, indicators []string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, s.senderName))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Emergency alert: %s level detected", level))

	indicatorList := ""
	for _, ind := range indicators {
		indicatorList += fmt.Sprintf("<li>%s</li>", ind)
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2 style="color: #D32F2F;">Emergency detected in conversation</h2>
			<p>Severity level: <strong>%s</strong></p>
			<p>Conversation: %s</p>
			<p>Indicators:</p>
			<ul>%s</ul>
			<p>Review the conversation and follow up according to the escalation protocol.</p>
		</div>
	`, strings.ToUpper(level), conversationId, indicatorList)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send emergency alert to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Emergency alert sent to %s\n", toEmail)
	return nil
}
