// Package testutil has fakes for the Discord session and the mail sender.
package testutil

import (
	"context"
	"sync"
	"time"

	"orderbot/src-server/email"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/mock"
)

// MockSender is a testify mock for email.Sender
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg email.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// FakeSession records every interaction response instead of calling Discord.
type FakeSession struct {
	mu        sync.Mutex
	Latency   time.Duration
	Responses []*discordgo.InteractionResponse
	Edits     []*discordgo.WebhookEdit
	// returned by InteractionRespond when set
	RespondErr error
}

func (f *FakeSession) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Responses = append(f.Responses, resp)
	return f.RespondErr
}

func (f *FakeSession) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Edits = append(f.Edits, edit)
	return &discordgo.Message{}, nil
}

func (f *FakeSession) HeartbeatLatency() time.Duration {
	return f.Latency
}

// LastResponse returns the most recent InteractionRespond payload, or nil.
func (f *FakeSession) LastResponse() *discordgo.InteractionResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Responses) == 0 {
		return nil
	}
	return f.Responses[len(f.Responses)-1]
}

// LastEdit returns the most recent InteractionResponseEdit payload, or nil.
func (f *FakeSession) LastEdit() *discordgo.WebhookEdit {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Edits) == 0 {
		return nil
	}
	return f.Edits[len(f.Edits)-1]
}

// FakeHost reports a fixed gateway state.
type FakeHost struct {
	GuildList []*discordgo.Guild
	IsReady   bool
}

func (h *FakeHost) Guilds() []*discordgo.Guild { return h.GuildList }

func (h *FakeHost) Ready() bool { return h.IsReady }

// SlashCommand builds an application command interaction from user userID.
func SlashCommand(name, userID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:    discordgo.InteractionApplicationCommand,
		GuildID: "guild",
		Member:  &discordgo.Member{User: &discordgo.User{ID: userID, Username: "user" + userID}},
		Data:    discordgo.ApplicationCommandInteractionData{Name: name},
	}}
}

// Button builds a message component interaction for customID.
func Button(customID, userID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:    discordgo.InteractionMessageComponent,
		GuildID: "guild",
		Member:  &discordgo.Member{User: &discordgo.User{ID: userID, Username: "user" + userID}},
		Data:    discordgo.MessageComponentInteractionData{CustomID: customID, ComponentType: discordgo.ButtonComponent},
	}}
}

// ModalSubmit builds a modal submit interaction, one text input per value,
// laid out the way discordgo decodes them from the gateway.
func ModalSubmit(customID, userID string, values map[string]string) *discordgo.InteractionCreate {
	rows := make([]discordgo.MessageComponent, 0, len(values))
	for id, v := range values {
		rows = append(rows, &discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			&discordgo.TextInput{CustomID: id, Value: v},
		}})
	}
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionModalSubmit,
		// DMs carry User instead of Member
		User: &discordgo.User{ID: userID, Username: "user" + userID},
		Data: discordgo.ModalSubmitInteractionData{CustomID: customID, Components: rows},
	}}
}
