package order_handler

import (
	"errors"
	"fmt"
	"log/slog"

	"orderbot/src-server/order"
	"orderbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

// startHandler handles /order_form: open a fresh order and show step 1.
func startHandler(as *utils.AppState) utils.InteractionHandler {
	return func(s utils.Session, i *discordgo.InteractionCreate) error {
		user := utils.InteractionUser(i)
		if user == nil {
			return fmt.Errorf("order_form: interaction has no user")
		}

		if !as.Limiter.Allow(user.ID) {
			as.Metrics.OrdersRejected.WithLabelValues("rate_limited").Inc()
			if err := utils.InteractRespHiddenReply(s, i, msgRateLimited); err != nil {
				slog.Warn("can't respond", "handler", "order_form", "content", "rate limited", "error", err)
			}
			return nil
		}

		o, err := as.Orders.Begin(user.ID, user.Username)
		if err != nil {
			if !errors.Is(err, order.ErrStoreFull) {
				return fmt.Errorf("order_form: can't start order: %w", err)
			}
			as.Metrics.OrdersRejected.WithLabelValues("store_full").Inc()
			slog.Warn("order store is full", "pending", as.Orders.Len())
			if err := utils.InteractRespHiddenReply(s, i, msgBusy); err != nil {
				slog.Warn("can't respond", "handler", "order_form", "content", "busy", "error", err)
			}
			return nil
		}
		as.Metrics.OrdersStarted.Inc()
		slog.Info("order form started", "user_id", user.ID, "username", user.Username, "order_id", o.ID)

		if err := utils.InteractRespModal(s, i, step1Form.customID, step1Form.title, step1Form.components(o)); err != nil {
			return fmt.Errorf("order_form: can't open step 1 modal: %w", err)
		}
		return nil
	}
}

// stepSubmitHandler stores one intermediate step and replies with a button
// that opens the next modal.
func stepSubmitHandler(as *utils.AppState, f form, nextButton, content string) utils.InteractionHandler {
	return func(s utils.Session, i *discordgo.InteractionCreate) error {
		user := utils.InteractionUser(i)
		if user == nil {
			return fmt.Errorf("%s: interaction has no user", f.customID)
		}
		values := modalValues(i.ModalSubmitData())

		o, err := as.Orders.Update(user.ID, f.step, func(o *order.Order) order.Step {
			f.apply(o, values)
			return f.step + 1
		})
		if err != nil {
			replyStale(as, s, i, err)
			return nil
		}
		slog.Debug("order step stored", "user_id", user.ID, "order_id", o.ID, "step", o.Step)

		if err := utils.InteractRespHiddenComponents(s, i, content, continueButton(nextButton, "Continue")); err != nil {
			return fmt.Errorf("%s: can't send continue button: %w", f.customID, err)
		}
		return nil
	}
}

// openFormHandler opens f's modal, prefilled with what the user already
// entered, as long as the order is waiting for that step.
func openFormHandler(as *utils.AppState, f form) utils.InteractionHandler {
	return func(s utils.Session, i *discordgo.InteractionCreate) error {
		user := utils.InteractionUser(i)
		if user == nil {
			return fmt.Errorf("%s: interaction has no user", f.customID)
		}

		o, ok := as.Orders.Get(user.ID)
		switch {
		case !ok:
			replyStale(as, s, i, order.ErrNoPendingOrder)
			return nil
		case o.Step != f.step:
			replyStale(as, s, i, fmt.Errorf("%w: want %s, have %s", order.ErrWrongStep, f.step, o.Step))
			return nil
		}

		if err := utils.InteractRespModal(s, i, f.customID, f.title, f.components(o)); err != nil {
			return fmt.Errorf("%s: can't open modal: %w", f.customID, err)
		}
		return nil
	}
}
