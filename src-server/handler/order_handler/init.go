package order_handler

import (
	"log/slog"

	"orderbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

const (
	cmdOrderForm = "order_form"

	// a modal can't be answered with another modal, so each step submit
	// replies with a button that opens the next one
	btnContinueStep2 = "order_form_continue_step2"
	btnContinueStep3 = "order_form_continue_step3"
)

const (
	msgStale       = "This order form has expired or was replaced. Run /order_form to start again."
	msgRateLimited = "You're starting order forms too quickly. Please wait a minute and try again."
	msgBusy        = "We're handling a lot of orders right now. Please try again in a few minutes."
	msgSendFailed  = "We couldn't send your confirmation email. Your order was not recorded, please contact support."
)

// Init injects the /order_form command, the three modal handlers and the
// continue buttons into AppState.
func Init(as *utils.AppState) {
	as.AddAppCmdInfo(cmdOrderForm, &discordgo.ApplicationCommand{
		Name:        cmdOrderForm,
		Description: "Submit an order and get a confirmation email.",
	})
	as.AddAppCmdHandler(cmdOrderForm, startHandler(as))

	as.AddAppCmdHandler(step1Form.customID, stepSubmitHandler(as, step1Form, btnContinueStep2, "Step 1 completed! Click below to continue:"))
	as.AddAppCmdHandler(step2Form.customID, stepSubmitHandler(as, step2Form, btnContinueStep3, "Step 2 completed! Click below to continue:"))
	as.AddAppCmdHandler(step3Form.customID, finishHandler(as))

	as.AddAppCmdHandler(btnContinueStep2, openFormHandler(as, step2Form))
	as.AddAppCmdHandler(btnContinueStep3, openFormHandler(as, step3Form))
}

func continueButton(customID, label string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    label,
					Style:    discordgo.PrimaryButton,
					CustomID: customID,
				},
			},
		},
	}
}

// replyStale tells the user their form is gone and counts the rejection.
func replyStale(as *utils.AppState, s utils.Session, i *discordgo.InteractionCreate, err error) {
	as.Metrics.OrdersRejected.WithLabelValues("stale").Inc()
	slog.Debug("stale order form interaction", "error", err)
	if err := utils.InteractRespHiddenReply(s, i, msgStale); err != nil {
		slog.Warn("can't respond", "handler", "order_form", "content", "stale", "error", err)
	}
}
