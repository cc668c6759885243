package handler

import (
	"testing"
	"time"

	"orderbot/src-server/email"
	"orderbot/src-server/testutil"
	"orderbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAppState(t *testing.T, host utils.Host) *utils.AppState {
	t.Helper()
	t.Setenv("SENDER_EMAIL", "bot@example.com")
	t.Setenv("SENDER_PASSWORD", "pw")
	t.Setenv("DISCORD_BOT_TOKEN", "MTA4NzY1NDMyMTA5ODc2NTQzMg.GaBcDe.abcdefghijklmnopqrstuvwxyz01234")
	cfg, err := utils.LoadConfig("does-not-exist.json")
	require.NoError(t, err)
	return utils.NewAppState(cfg, utils.Deps{
		Host:       host,
		Sender:     new(testutil.MockSender),
		Template:   email.DefaultTemplate(),
		Registerer: prometheus.NewRegistry(),
	})
}

func embedField(t *testing.T, e *discordgo.MessageEmbed, name string) string {
	t.Helper()
	for _, f := range e.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	t.Fatalf("embed has no field %q", name)
	return ""
}

func TestPing(t *testing.T) {
	tests := []struct {
		name    string
		latency time.Duration
		want    string
	}{
		{name: "normal", latency: 42 * time.Millisecond, want: "42ms"},
		{name: "no heartbeat yet", latency: 0, want: "0ms"},
		{name: "negative clamps to zero", latency: -5 * time.Millisecond, want: "0ms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			as := newTestAppState(t, &testutil.FakeHost{IsReady: true})
			Ping(as)
			s := &testutil.FakeSession{Latency: tt.latency}

			as.HandleInteraction(s, testutil.SlashCommand("ping", "1"))

			resp := s.LastResponse()
			require.NotNil(t, resp)
			assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Data.Flags)
			require.Len(t, resp.Data.Embeds, 1)
			assert.Equal(t, "Pong!", resp.Data.Embeds[0].Title)
			assert.Equal(t, tt.want, embedField(t, resp.Data.Embeds[0], "Latency"))
		})
	}
}

func TestDiagnostics_CountsMatchHost(t *testing.T) {
	host := &testutil.FakeHost{
		IsReady: true,
		GuildList: []*discordgo.Guild{
			{ID: "1", MemberCount: 1200},
			{ID: "2", MemberCount: 34},
			{ID: "3", MemberCount: 11000},
		},
	}
	as := newTestAppState(t, host)
	Diagnostics(as)
	s := &testutil.FakeSession{Latency: 87 * time.Millisecond}

	report, ok := CollectDiagnostics(as, s)
	require.True(t, ok)
	assert.Equal(t, 3, report.GuildCount)
	assert.Equal(t, 12234, report.UserCount)
	assert.Equal(t, int64(87), report.LatencyMs)

	as.HandleInteraction(s, testutil.SlashCommand("run_diagnostics", "1"))
	resp := s.LastResponse()
	require.NotNil(t, resp)
	require.Len(t, resp.Data.Embeds, 1)
	embed := resp.Data.Embeds[0]
	assert.Equal(t, "3", embedField(t, embed, "Servers"))
	assert.Equal(t, "12,234", embedField(t, embed, "Users"))
	assert.Equal(t, "87ms", embedField(t, embed, "Latency"))
	assert.Equal(t, "0", embedField(t, embed, "Pending orders"))
}

func TestDiagnostics_NotConnected(t *testing.T) {
	as := newTestAppState(t, &testutil.FakeHost{IsReady: false})
	Diagnostics(as)
	s := &testutil.FakeSession{}

	as.HandleInteraction(s, testutil.SlashCommand("run_diagnostics", "1"))

	resp := s.LastResponse()
	require.NotNil(t, resp)
	assert.Empty(t, resp.Data.Embeds)
	assert.Equal(t, serviceUnavailableMsg, resp.Data.Content)
}

func TestRegistersCommands(t *testing.T) {
	as := newTestAppState(t, &testutil.FakeHost{})
	Ping(as)
	Diagnostics(as)

	var names []string
	as.IterateAppCmdInfo(func(k string, _ *discordgo.ApplicationCommand) { names = append(names, k) })
	assert.ElementsMatch(t, []string{"ping", "run_diagnostics"}, names)
}
