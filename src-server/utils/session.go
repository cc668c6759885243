package utils

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// Session is the part of *discordgo.Session the interaction handlers use.
// Handlers take this instead of the concrete session so they can be tested
// without a gateway connection.
type Session interface {
	InteractionRespond(
		interaction *discordgo.Interaction,
		resp *discordgo.InteractionResponse,
		options ...discordgo.RequestOption,
	) error
	InteractionResponseEdit(
		interaction *discordgo.Interaction,
		newresp *discordgo.WebhookEdit,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)
	HeartbeatLatency() time.Duration
}

var _ Session = (*discordgo.Session)(nil)

// Host exposes the gateway state read by /run_diagnostics.
type Host interface {
	Guilds() []*discordgo.Guild
	Ready() bool
}

// DgHost reads the guild cache of a live discordgo session.
type DgHost struct {
	session *discordgo.Session
}

func NewDgHost(s *discordgo.Session) *DgHost {
	return &DgHost{session: s}
}

func (h *DgHost) Guilds() []*discordgo.Guild {
	if h.session == nil || h.session.State == nil {
		return nil
	}
	h.session.State.RLock()
	defer h.session.State.RUnlock()
	guilds := make([]*discordgo.Guild, len(h.session.State.Guilds))
	copy(guilds, h.session.State.Guilds)
	return guilds
}

// Ready reads DataReady under the session lock; discordgo flips it from the
// gateway goroutine.
func (h *DgHost) Ready() bool {
	if h.session == nil {
		return false
	}
	h.session.RLock()
	defer h.session.RUnlock()
	return h.session.DataReady
}
