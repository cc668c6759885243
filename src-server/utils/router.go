package utils

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// HandleInteraction routes one gateway interaction to its handler: slash
// commands by name, buttons and modals by custom ID.
func (as *AppState) HandleInteraction(s Session, i *discordgo.InteractionCreate) {
	if i == nil || i.Interaction == nil {
		return
	}

	var id string
	switch i.Type {
	case discordgo.InteractionApplicationCommand: // slash commands
		id = i.ApplicationCommandData().Name
	case discordgo.InteractionMessageComponent: // buttons, dropdowns, etc
		id = i.MessageComponentData().CustomID
	case discordgo.InteractionModalSubmit: // modal a.k.a. text input
		id = i.ModalSubmitData().CustomID
	default:
		slog.Error("unknown interaction type", "type", i.Type)
		return
	}

	if handler, ok := as.GetAppCmdHandler(id); ok {
		if err := handler(s, i); err != nil {
			slog.Error("handler error", "command", id, "error", err.Error())
		}
		return
	}

	if err := InteractRespHiddenReply(s, i, "Expired interaction"); err != nil {
		slog.Warn("can't respond", "error", err.Error())
	}
	username := "unknown"
	if user := InteractionUser(i); user != nil {
		username = user.Username
	}
	slog.Debug("someone used an expired interaction", "username", username, "custom_id", id)
}
