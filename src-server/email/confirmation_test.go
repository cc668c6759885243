package email_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"orderbot/src-server/email"
	"orderbot/src-server/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestConfirmer_SendOrderConfirmation(t *testing.T) {
	sender := new(testutil.MockSender)
	sender.On("Send", mock.Anything, mock.MatchedBy(func(msg email.Message) bool {
		return msg.To == "user@example.com"
	})).Return(nil).Once()

	tmpl := email.Template{Subject: "Order", HTMLBody: "<b>{{product_name}}</b>"}
	c := email.NewConfirmer(sender, tmpl, time.Second)

	var observed []error
	c.OnSend(func(_ time.Duration, err error) { observed = append(observed, err) })

	err := c.SendOrderConfirmation(context.Background(), "user@example.com", map[string]string{
		"product_name": "Sneaker X",
	})
	require.NoError(t, err)

	sender.AssertExpectations(t)
	msg := sender.Calls[0].Arguments.Get(1).(email.Message)
	assert.Contains(t, msg.HTMLBody, "Sneaker X")
	assert.Equal(t, []error{nil}, observed)

	ctx := sender.Calls[0].Arguments.Get(0).(context.Context)
	_, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)
}

func TestConfirmer_InvalidAddressNeverSends(t *testing.T) {
	sender := new(testutil.MockSender)
	c := email.NewConfirmer(sender, email.DefaultTemplate(), time.Second)

	err := c.SendOrderConfirmation(context.Background(), "not-an-address", nil)
	assert.ErrorIs(t, err, email.ErrRecipientRefused)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestConfirmer_SurfacesReason(t *testing.T) {
	sender := new(testutil.MockSender)
	sender.On("Send", mock.Anything, mock.Anything).
		Return(fmt.Errorf("email:Send: %w", email.ErrAuth)).Once()
	c := email.NewConfirmer(sender, email.DefaultTemplate(), 0)

	err := c.SendOrderConfirmation(context.Background(), "user@example.com", nil)
	assert.ErrorIs(t, err, email.ErrAuth)
	assert.Equal(t, "auth", email.Reason(err))
	sender.AssertNumberOfCalls(t, "Send", 1)
}
