package notifications

import (
	"context"
	"log/slog"

	"github.com/neurulatechnologies/neurula-patient-backend/domain"
)

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type emailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// LiveNotifier routes SMS through Twilio and email through SMTP.
type LiveNotifier struct {
	sms   smsSender
	email emailSender
}

var _ domain.NotificationService = (*LiveNotifier)(nil)

// NewLiveNotifier combines channel senders into one notification service.
func NewLiveNotifier(sms smsSender, email emailSender) *LiveNotifier {
	return &LiveNotifier{sms: sms, email: email}
}

func (n *LiveNotifier) SendSMS(ctx context.Context, to, message string) error {
	return n.sms.SendSMS(ctx, to, message)
}

func (n *LiveNotifier) SendEmail(ctx context.Context, to, subject, body string) error {
	return n.email.SendEmail(ctx, to, subject, body)
}

// LogNotifier writes messages to the application log instead of
// delivering them. Used in development and test environments where
// operators read OTP codes from the log.
type LogNotifier struct {
	logger *slog.Logger
}

var _ domain.NotificationService = (*LogNotifier)(nil)

// NewLogNotifier creates a log-only notification service.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendSMS(_ context.Context, to, message string) error {
	n.logger.Info("sms delivery skipped",
		slog.String("channel", "sms"),
		slog.String("to", to),
		slog.String("message", message),
	)
	return nil
}

func (n *LogNotifier) SendEmail(_ context.Context, to, subject, body string) error {
	n.logger.Info("email delivery skipped",
		slog.String("channel", "email"),
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("body", body),
	)
	return nil
}
