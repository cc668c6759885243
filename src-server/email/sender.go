package email

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/textproto"
	"time"

	"github.com/wneessen/go-mail"
)

// Failure reasons surfaced by Sender implementations. Errors returned by
// SMTPSender wrap exactly one of these.
var (
	ErrAuth             = errors.New("smtp authentication failed")
	ErrConnection       = errors.New("smtp connection failed")
	ErrRecipientRefused = errors.New("smtp recipient refused")
	ErrDelivery         = errors.New("smtp delivery failed")
)

type Message struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// Sender delivers one message per call.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPConfig struct {
	Host       string
	Port       int
	UseTLS     bool
	Timeout    time.Duration
	Username   string
	Password   string
	SenderName string
}

// SMTPSender opens a fresh SMTP session for every message. Port 465 uses
// implicit SSL, other ports STARTTLS (mandatory when UseTLS is set).
type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
	}
	if s.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(s.cfg.Timeout))
	}
	switch {
	case s.cfg.Port == 465:
		opts = append(opts, mail.WithSSL())
	case s.cfg.UseTLS:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	return opts
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()
	if err := m.FromFormat(s.cfg.SenderName, s.cfg.Username); err != nil {
		return fmt.Errorf("email:Send: invalid sender address: %w: %w", ErrDelivery, err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("email:Send: invalid recipient address: %w: %w", ErrRecipientRefused, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)
	if msg.TextBody != "" {
		m.AddAlternativeString(mail.TypeTextPlain, msg.TextBody)
	}

	client, err := mail.NewClient(s.cfg.Host, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("email:Send: can't create smtp client: %w: %w", ErrConnection, err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("email:Send: %w", classify(err))
	}
	return nil
}

// classify wraps err with the matching failure reason.
func classify(err error) error {
	var sendErr *mail.SendError
	if errors.As(err, &sendErr) {
		switch sendErr.Reason {
		case mail.ErrSMTPRcptTo, mail.ErrGetRcpts:
			return fmt.Errorf("%w: %w", ErrRecipientRefused, err)
		case mail.ErrConnCheck:
			return fmt.Errorf("%w: %w", ErrConnection, err)
		}
	}

	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		switch protoErr.Code {
		case 530, 534, 535:
			return fmt.Errorf("%w: %w", ErrAuth, err)
		case 550, 551, 553:
			return fmt.Errorf("%w: %w", ErrRecipientRefused, err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	return fmt.Errorf("%w: %w", ErrDelivery, err)
}

// Reason returns a short label for the failure reason wrapped by err, for
// logs and metric labels.
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.Is(err, ErrConnection):
		return "connection"
	case errors.Is(err, ErrRecipientRefused):
		return "recipient_refused"
	default:
		return "delivery"
	}
}
