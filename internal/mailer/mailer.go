package mailer

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"

	"github.com/frahmantamala/user-management/internal"
	"github.com/frahmantamala/user-management/internal/core/events"
)

// Sender delivers transactional mail over SMTP.
type Sender struct {
	client *gomail.Client
	from   string
	logger *slog.Logger
}

func NewSender(cfg internal.SMTPConfig, logger *slog.Logger) (*Sender, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mailer: create smtp client: %w", err)
	}

	return &Sender{
		client: client,
		from:   cfg.From,
		logger: logger,
	}, nil
}

func (s *Sender) SendWelcome(ctx context.Context, email, name string) error {
	subject := "Welcome"
	body := fmt.Sprintf("Hi %s,\n\nYour account has been created. You can now sign in with this email address.\n", name)
	return s.send(ctx, email, subject, body)
}

func (s *Sender) SendDeactivationNotice(ctx context.Context, email string) error {
	subject := "Account deactivated"
	body := "Your account has been deactivated. Contact an administrator if you believe this is a mistake.\n"
	return s.send(ctx, email, subject, body)
}

func (s *Sender) send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("mailer: set from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mailer: set recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", to, err)
	}
	return nil
}

// RegisterSubscribers wires mail delivery to user lifecycle events.
func RegisterSubscribers(bus *events.EventBus, sender *Sender) {
	bus.Subscribe(events.UserCreatedEvent, func(ctx context.Context, e events.Event) error {
		email, name := eventStrings(e, "email", "name")
		if email == "" {
			return fmt.Errorf("mailer: %s event without email", e.EventType())
		}
		return sender.SendWelcome(ctx, email, name)
	})

	bus.Subscribe(events.UserDeactivatedEvent, func(ctx context.Context, e events.Event) error {
		email, _ := eventStrings(e, "email", "")
		if email == "" {
			return fmt.Errorf("mailer: %s event without email", e.EventType())
		}
		return sender.SendDeactivationNotice(ctx, email)
	})
}

func eventStrings(e events.Event, k1, k2 string) (string, string) {
	data, ok := e.Payload().(map[string]interface{})
	if !ok {
		return "", ""
	}
	v1, _ := data[k1].(string)
	v2 := ""
	if k2 != "" {
		v2, _ = data[k2].(string)
	}
	return v1, v2
}
