package email

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

func TestIsValidAddress(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"test@example.com", true},
		{"test.name+label@example.com", true},
		{"user.name@subdomain.example.com", true},
		{"user@example.com", true},
		{"invalid-email", false},
		{"test@domain", false},
		{"", false},
		{"@example.com", false},
		{"user@exa mple.com", false},
		{"user@@example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidAddress(tt.input))
		})
	}
}

func TestTemplate_Render(t *testing.T) {
	tmpl := Template{
		Subject:  "Your {{product_name}}",
		HTMLBody: "<p>{{product_name}} to {{shipping_address}} {{unknown}}</p>",
		TextBody: "{{product_name}}",
	}
	msg := tmpl.Render("user@example.com", map[string]string{
		"product_name":     "Sneaker <X>",
		"shipping_address": "123 Main St",
	})

	assert.Equal(t, "user@example.com", msg.To)
	assert.Equal(t, "Your Sneaker <X>", msg.Subject)
	assert.Equal(t, "<p>Sneaker &lt;X&gt; to 123 Main St {{unknown}}</p>", msg.HTMLBody)
	assert.Equal(t, "Sneaker <X>", msg.TextBody)
}

func TestLoadTemplate(t *testing.T) {
	t.Run("missing file uses default", func(t *testing.T) {
		tmpl, err := LoadTemplate(filepath.Join(t.TempDir(), "nope.json"))
		require.NoError(t, err)
		assert.Equal(t, DefaultTemplate(), tmpl)
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "email_template.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"html_body": "Test {{variable}}"}`), 0o600))

		tmpl, err := LoadTemplate(path)
		require.NoError(t, err)
		assert.Equal(t, "Test {{variable}}", tmpl.HTMLBody)
		assert.Equal(t, DefaultTemplate().Subject, tmpl.Subject)
	})

	t.Run("broken file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "email_template.json")
		require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))

		_, err := LoadTemplate(path)
		assert.Error(t, err)
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		reason error
		label  string
	}{
		{
			name:   "auth rejected",
			err:    fmt.Errorf("SMTP AUTH failed: %w", &textproto.Error{Code: 535, Msg: "bad credentials"}),
			reason: ErrAuth,
			label:  "auth",
		},
		{
			name:   "recipient refused",
			err:    &mail.SendError{Reason: mail.ErrSMTPRcptTo},
			reason: ErrRecipientRefused,
			label:  "recipient_refused",
		},
		{
			name:   "dial failure",
			err:    &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
			reason: ErrConnection,
			label:  "connection",
		},
		{
			name:   "deadline",
			err:    fmt.Errorf("dial: %w", context.DeadlineExceeded),
			reason: ErrConnection,
			label:  "connection",
		},
		{
			name:   "anything else",
			err:    errors.New("boom"),
			reason: ErrDelivery,
			label:  "delivery",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			assert.ErrorIs(t, got, tt.reason)
			assert.ErrorIs(t, got, tt.err)
			assert.Equal(t, tt.label, Reason(got))
		})
	}
}

func TestReason_Nil(t *testing.T) {
	assert.Equal(t, "ok", Reason(nil))
}
