package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/knadh/smtppool"
)

// SMTPConfig holds the connection settings for the outgoing mail server.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // sender address, e.g. "eventyfast <no-reply@eventyfast.example>"
	MaxConns int
}

// SMTP delivers messages through a pooled SMTP connection.
type SMTP struct {
	pool *smtppool.Pool
	from string
	log  *slog.Logger
}

func NewSMTP(cfg SMTPConfig, log *slog.Logger) (*SMTP, error) {
	var auth smtp.Auth
	if cfg.Username != "" || cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 2
	}

	pool, err := smtppool.New(smtppool.Opt{
		Host:            cfg.Host,
		Port:            cfg.Port,
		MaxConns:        maxConns,
		IdleTimeout:     15 * time.Second,
		PoolWaitTimeout: 15 * time.Second,
		TLSConfig:       &tls.Config{ServerName: cfg.Host},
		Auth:            auth,
	})
	if err != nil {
		return nil, fmt.Errorf("smtp pool: %w", err)
	}

	return &SMTP{pool: pool, from: cfg.From, log: log}, nil
}

func (s *SMTP) Send(ctx context.Context, kind Kind, to string, data Data) error {
	subject, body, err := render(kind, data)
	if err != nil {
		return err
	}

	err = s.pool.Send(smtppool.Email{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		HTML:    []byte(body),
	})
	if err != nil {
		return fmt.Errorf("send %s to %s: %w", kind, to, err)
	}

	s.log.DebugContext(ctx, "mail sent", "kind", string(kind), "to", to)
	return nil
}

// Close drains the connection pool.
func (s *SMTP) Close() {
	s.pool.Close()
}
