package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"

	"github.com/yourusername/quiz-api/internal/logger"
)

// SendResult - итог отправки письма
type SendResult struct {
	Sent    bool   `json:"is_sent"`
	Message string `json:"message,omitempty"`
}

// EmailSender sends transactional emails.
type EmailSender interface {
	SendHTML(ctx context.Context, toEmail, subject, html string) SendResult
}

// NoopEmailService is used when email delivery is disabled.
type NoopEmailService struct{}

func (s *NoopEmailService) SendHTML(ctx context.Context, toEmail, subject, html string) SendResult {
	logger.Get().Named("EmailService").Info("noop send", zap.String("to", toEmail), zap.String("subject", subject))
	return SendResult{Sent: true}
}

// ResendEmailService sends emails via Resend REST API.
type ResendEmailService struct {
	from   string
	client *resend.Client
}

func NewResendEmailService(apiKey, from string) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &ResendEmailService{
		from:   from,
		client: resend.NewClient(apiKey),
	}, nil
}

// SendHTML делает одну попытку отправки. Ошибка провайдера возвращается в SendResult.
func (s *ResendEmailService) SendHTML(ctx context.Context, toEmail, subject, html string) SendResult {
	if strings.TrimSpace(toEmail) == "" {
		return SendResult{Message: "An error occurred while sending the email: recipient is empty"}
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: subject,
		Html:    html,
	}
	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		logger.Get().Named("EmailService").Warn("resend send failed", zap.String("to", toEmail), zap.Error(err))
		return SendResult{Message: fmt.Sprintf("An error occurred while sending the email: %v", err)}
	}
	return SendResult{Sent: true}
}
