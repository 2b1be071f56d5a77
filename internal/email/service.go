package email

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/careportal/pkg/circuitbreaker"
)

type Service interface {
	SendWelcome(ctx context.Context, to string, name string) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// NewService returns an SMTP mailer, or a no-op one when no host is set.
func NewService(cfg Config) Service {
	if cfg.Host == "" {
		return NoopService{}
	}
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "smtp",
			MaxFailures: 3,
			Timeout:     time.Minute,
		}),
	}
}

// smtpService stops dialing for a minute after three failed sends in a row.
type smtpService struct {
	dialer  *gomail.Dialer
	from    string
	breaker *circuitbreaker.CircuitBreaker
}

func (s *smtpService) SendWelcome(ctx context.Context, to string, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Welcome to the care portal")
	m.SetBody("text/plain", welcomeBody(name))

	if err := s.breaker.Execute(func() error { return s.dialer.DialAndSend(m) }); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

func welcomeBody(name string) string {
	return fmt.Sprintf("Hello %s,\n\nYour account is ready. You can sign in at any time.\n", name)
}

// NoopService drops every message.
type NoopService struct{}

func (NoopService) SendWelcome(ctx context.Context, to string, name string) error {
	return nil
}
