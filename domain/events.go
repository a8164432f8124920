package domain

import (
	"log/slog"
	"time"
)

// AuditEventType names a business event worth keeping in the audit trail.
type AuditEventType string

const (
	// Registration and verification events
	UserRegistrationEvent AuditEventType = "USER_REGISTERED"
	OTPRequestEvent       AuditEventType = "OTP_REQUESTED"
	OTPVerifiedEvent      AuditEventType = "OTP_VERIFIED"
	OTPFailureEvent       AuditEventType = "OTP_VERIFICATION_FAILED"

	// Authentication events
	UserLoginEvent        AuditEventType = "USER_LOGIN"
	UserLoginFailureEvent AuditEventType = "USER_LOGIN_FAILED"
	TokenRefreshEvent     AuditEventType = "TOKEN_REFRESHED"
	PasswordChangeEvent   AuditEventType = "PASSWORD_CHANGED"
	PasswordResetEvent    AuditEventType = "PASSWORD_RESET"

	// Authorization events
	AccessDeniedEvent AuditEventType = "ACCESS_DENIED"
)

// AuditEvent is a structured record of a security-relevant action.
type AuditEvent struct {
	EventType  AuditEventType
	UserID     string
	Identifier string
	Timestamp  time.Time
	Success    bool
	ErrorMsg   string
}

// NewAuditEvent creates an event stamped with the current UTC time.
func NewAuditEvent(eventType AuditEventType) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Success:   true,
	}
}

// WithUser sets the acting user ID.
func (e *AuditEvent) WithUser(userID string) *AuditEvent {
	e.UserID = userID
	return e
}

// WithIdentifier sets the email or phone the action targeted.
func (e *AuditEvent) WithIdentifier(identifier string) *AuditEvent {
	e.Identifier = identifier
	return e
}

// WithError marks the event failed and records the reason.
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// Emit writes the event to the logger, failures at warn level.
func (e *AuditEvent) Emit(logger *slog.Logger) {
	attrs := []any{
		slog.String("event", string(e.EventType)),
		slog.Bool("success", e.Success),
		slog.Time("at", e.Timestamp),
	}
	if e.UserID != "" {
		attrs = append(attrs, slog.String("user_id", e.UserID))
	}
	if e.Identifier != "" {
		attrs = append(attrs, slog.String("identifier", e.Identifier))
	}
	if e.ErrorMsg != "" {
		attrs = append(attrs, slog.String("error", e.ErrorMsg))
	}
	if e.Success {
		logger.Info("audit", attrs...)
		return
	}
	logger.Warn("audit", attrs...)
}
