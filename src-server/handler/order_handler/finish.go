package order_handler

import (
	"fmt"
	"log/slog"

	"orderbot/src-server/email"
	"orderbot/src-server/order"
	"orderbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

// finishHandler takes the last step: validate the email, send the
// confirmation once and drop the order whatever the outcome.
func finishHandler(as *utils.AppState) utils.InteractionHandler {
	return func(s utils.Session, i *discordgo.InteractionCreate) error {
		user := utils.InteractionUser(i)
		if user == nil {
			return fmt.Errorf("%s: interaction has no user", step3Form.customID)
		}
		values := modalValues(i.ModalSubmitData())

		// moving to Completed under the store lock means a duplicate submit
		// finds the order at the wrong step and never sends a second email
		o, err := as.Orders.Update(user.ID, order.AwaitingStep3, func(o *order.Order) order.Step {
			step3Form.apply(o, values)
			if !email.IsValidAddress(o.Email) {
				return order.AwaitingStep3
			}
			return order.Completed
		})
		if err != nil {
			replyStale(as, s, i, err)
			return nil
		}

		if o.Step != order.Completed {
			as.Metrics.OrdersRejected.WithLabelValues("invalid_email").Inc()
			msg := fmt.Sprintf("%q doesn't look like a valid email address. Click below to fix it, your other answers are kept.", o.Email)
			if err := utils.InteractRespHiddenComponents(s, i, msg, continueButton(btnContinueStep3, "Edit Step 3")); err != nil {
				return fmt.Errorf("%s: can't send invalid email message: %w", step3Form.customID, err)
			}
			return nil
		}

		defer as.Orders.Finish(user.ID, o.ID)

		// SMTP can take longer than the 3s Discord gives us to answer
		if err := utils.InteractRespHiddenDefer(s, i); err != nil {
			slog.Warn("can't respond", "handler", step3Form.customID, "content", "deferring", "error", err)
		}

		loc := as.Config.GetLocation()
		if err := as.Confirmer.SendOrderConfirmation(as.Context(), o.Email, o.Fields(loc)); err != nil {
			msg := msgSendFailed
			if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
				Content: &msg,
			}); err != nil {
				slog.Warn("can't respond", "handler", step3Form.customID, "content", msg, "error", err)
			}
			return fmt.Errorf("%s: can't send confirmation for order %s (%s): %w",
				step3Form.customID, o.ID, email.Reason(err), err)
		}
		as.Metrics.OrdersCompleted.Inc()
		slog.Info("order submitted", "user_id", user.ID, "order_id", o.ID, "product", o.ProductName)

		msg := fmt.Sprintf("Order submitted! A confirmation email is on its way to %s.", o.Email)
		embeds := []*discordgo.MessageEmbed{summaryEmbed(as, o)}
		if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
			Content: &msg,
			Embeds:  &embeds,
		}); err != nil {
			slog.Warn("can't respond", "handler", step3Form.customID, "content", "summary", "error", err)
		}
		return nil
	}
}
