package order_handler

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"orderbot/src-server/order"
	"orderbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
)

// discordTime renders text as a Discord date tag when the whole of it parses
// as a date, otherwise returns it unchanged.
func discordTime(as *utils.AppState, text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return text
	}
	base := time.Now().In(as.Config.GetLocation())
	r, err := as.When.Parse(trimmed, base)
	if err != nil || r == nil {
		return text
	}
	// a date found inside longer text would drop the rest of it
	if r.Index != 0 || strings.TrimSpace(r.Text) != trimmed {
		return text
	}
	return fmt.Sprintf("<t:%d:D>", r.Time.Unix())
}

// orDash keeps embed fields non-empty, Discord rejects blank values.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func isWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func summaryEmbed(as *utils.AppState, o order.Order) *discordgo.MessageEmbed {
	arrival := fmt.Sprintf("%s to %s", discordTime(as, o.ArrivalStart), discordTime(as, o.ArrivalEnd))
	embed := &discordgo.MessageEmbed{
		Title: "Order Submitted",
		Color: 0x57F287,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Product", Value: orDash(o.ProductName)},
			{Name: "Total Paid", Value: orDash(o.Price), Inline: true},
			{Name: "Order Number", Value: orDash(o.OrderNumber), Inline: true},
			{Name: "Estimated Arrival", Value: arrival},
			{Name: "Style ID", Value: orDash(o.StyleID), Inline: true},
			{Name: "Size", Value: orDash(o.Size), Inline: true},
			{Name: "Color", Value: orDash(o.Color), Inline: true},
			{Name: "Condition", Value: orDash(o.Condition), Inline: true},
			{Name: "Shipping To", Value: orDash(o.ShippingAddress)},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "Order " + o.ID.String()},
		Timestamp: o.CreatedAt.Format(time.RFC3339),
	}
	if o.Notes != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Notes", Value: o.Notes})
	}
	if isWebURL(o.ImageURL) {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: o.ImageURL}
	}
	return embed
}
