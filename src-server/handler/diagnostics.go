package handler

import (
	"fmt"
	"log/slog"
	"time"

	"orderbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

const serviceUnavailableMsg = "Diagnostics are unavailable right now, the bot isn't connected to Discord. Try again in a minute."

// DiagnosticsReport is a point-in-time read of the gateway client.
type DiagnosticsReport struct {
	Uptime     time.Duration
	GuildCount int
	UserCount  int
	LatencyMs  int64
}

func Diagnostics(as *utils.AppState) {
	id := "run_diagnostics"
	as.AddAppCmdHandler(id, diagnosticsHandler(as))
	as.AddAppCmdInfo(id, &discordgo.ApplicationCommand{
		Name:        id,
		Description: "Show uptime, server count, member count and latency.",
	})
}

// CollectDiagnostics reads the counts from host. ok is false when the
// gateway connection isn't up.
func CollectDiagnostics(as *utils.AppState, s utils.Session) (DiagnosticsReport, bool) {
	if as.Host == nil || !as.Host.Ready() {
		return DiagnosticsReport{}, false
	}
	guilds := as.Host.Guilds()
	report := DiagnosticsReport{
		Uptime:     as.GetUptime(),
		GuildCount: len(guilds),
		LatencyMs:  latencyMillis(s),
	}
	for _, g := range guilds {
		report.UserCount += g.MemberCount
	}
	return report, true
}

func diagnosticsHandler(as *utils.AppState) utils.InteractionHandler {
	return func(s utils.Session, i *discordgo.InteractionCreate) error {
		report, ok := CollectDiagnostics(as, s)
		if !ok {
			slog.Warn("diagnostics requested while the gateway is down")
			if err := utils.InteractRespHiddenReply(s, i, serviceUnavailableMsg); err != nil {
				slog.Warn("diagnosticsHandler: can't respond", "error", err)
			}
			return nil
		}

		embed := &discordgo.MessageEmbed{
			Title: "Diagnostics",
			Color: 0x5865F2,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Uptime", Value: utils.FormatUptime(report.Uptime), Inline: true},
				{Name: "Servers", Value: utils.FormatCount(report.GuildCount), Inline: true},
				{Name: "Users", Value: utils.FormatCount(report.UserCount), Inline: true},
				{Name: "Latency", Value: fmt.Sprintf("%dms", report.LatencyMs), Inline: true},
				{Name: "Pending orders", Value: utils.FormatCount(as.Orders.Len()), Inline: true},
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}
		if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Flags:  discordgo.MessageFlagsEphemeral,
				Embeds: []*discordgo.MessageEmbed{embed},
			},
		}); err != nil {
			return fmt.Errorf("diagnosticsHandler: can't respond: %w", err)
		}
		return nil
	}
}
