package handler

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"orderbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

func Ping(as *utils.AppState) {
	id := "ping"
	as.AddAppCmdHandler(id, pingHandler(as))
	as.AddAppCmdInfo(id, &discordgo.ApplicationCommand{
		Name:        id,
		Description: "Check that the bot is alive and how fast it answers.",
	})
}

// latencyMillis never goes negative; discordgo reports 0 before the first
// heartbeat ack and clock skew can do the rest.
func latencyMillis(s utils.Session) int64 {
	return max(0, s.HeartbeatLatency().Milliseconds())
}

func pingHandler(as *utils.AppState) utils.InteractionHandler {
	return func(s utils.Session, i *discordgo.InteractionCreate) error {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		memUsage := float64(m.Sys) / 1024 / 1024

		embeds := []*discordgo.MessageEmbed{
			{
				Title: "Pong!",
				Footer: &discordgo.MessageEmbedFooter{
					Text: i.GuildID,
				},
				Fields: []*discordgo.MessageEmbedField{
					{
						Name:   "Latency",
						Value:  fmt.Sprintf("%dms", latencyMillis(s)),
						Inline: true,
					},
					{
						Name:   "Uptime",
						Value:  utils.FormatUptime(as.GetUptime()),
						Inline: true,
					},
					{
						Name:   "Go version",
						Value:  runtime.Version(),
						Inline: true,
					},
					{
						Name:   "Memory",
						Value:  fmt.Sprintf("%.2fMB", memUsage),
						Inline: true,
					},
				},
			},
		}

		startTimer := time.Now()
		if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Flags:  discordgo.MessageFlagsEphemeral,
				Embeds: embeds,
			},
		}); err != nil {
			slog.Warn("pingHandler: can't respond", "error", err)
			return nil
		}
		slog.Debug("pong", "took", time.Since(startTimer))
		return nil
	}
}
