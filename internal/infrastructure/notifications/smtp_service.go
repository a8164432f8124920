package notifications

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"time"

	"github.com/knadh/smtppool"
)

// SMTPOptions configures the pooled SMTP sender.
type SMTPOptions struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	MaxConns    int
	SendTimeout time.Duration
}

// SMTPService sends email through a pooled SMTP connection.
type SMTPService struct {
	pool *smtppool.Pool
	from string
}

// NewSMTPService builds the connection pool. Connections are opened
// lazily on first send, so construction succeeds with the server down.
func NewSMTPService(opts SMTPOptions) (*SMTPService, error) {
	if opts.Host == "" {
		return nil, fmt.Errorf("smtp host not configured")
	}
	if opts.From == "" {
		return nil, fmt.Errorf("smtp from address not configured")
	}
	if opts.MaxConns < 1 {
		opts.MaxConns = 4
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 10 * time.Second
	}

	var auth smtp.Auth
	if opts.Username != "" || opts.Password != "" {
		auth = smtp.PlainAuth("", opts.Username, opts.Password, opts.Host)
	}

	pool, err := smtppool.New(smtppool.Opt{
		Host:            opts.Host,
		Port:            opts.Port,
		MaxConns:        opts.MaxConns,
		IdleTimeout:     opts.SendTimeout,
		PoolWaitTimeout: opts.SendTimeout,
		TLSConfig:       &tls.Config{ServerName: opts.Host},
		Auth:            auth,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp pool: %w", err)
	}

	return &SMTPService{pool: pool, from: opts.From}, nil
}

// SendEmail delivers a single HTML message to the given address.
func (s *SMTPService) SendEmail(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.pool.Send(smtppool.Email{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		HTML:    []byte(body),
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
