package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Confirmer renders the order confirmation template and hands it to a Sender.
type Confirmer struct {
	sender   Sender
	template Template
	timeout  time.Duration

	// called after every send attempt with its duration and result
	observe func(time.Duration, error)
}

func NewConfirmer(sender Sender, tmpl Template, timeout time.Duration) *Confirmer {
	return &Confirmer{sender: sender, template: tmpl, timeout: timeout}
}

// OnSend registers a hook called after each send attempt.
func (c *Confirmer) OnSend(fn func(time.Duration, error)) {
	c.observe = fn
}

// SendOrderConfirmation sends one confirmation email to to. There is no retry:
// the caller gets the classified error and decides what to tell the user.
func (c *Confirmer) SendOrderConfirmation(ctx context.Context, to string, fields map[string]string) error {
	if !IsValidAddress(to) {
		return fmt.Errorf("email:SendOrderConfirmation: %q: %w", to, ErrRecipientRefused)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	msg := c.template.Render(to, fields)
	start := time.Now()
	err := c.sender.Send(ctx, msg)
	if c.observe != nil {
		c.observe(time.Since(start), err)
	}
	if err != nil {
		return fmt.Errorf("email:SendOrderConfirmation: %w", err)
	}
	slog.Info("order confirmation sent", "to", to, "duration", time.Since(start))
	return nil
}
