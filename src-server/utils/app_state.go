package utils

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"orderbot/src-server/email"
	"orderbot/src-server/metric"
	"orderbot/src-server/order"

	"github.com/bwmarrin/discordgo"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/prometheus/client_golang/prometheus"
)

// InteractionHandler handles one interaction. Only return an error when it's
// the backend's fault, nil if it's the user's.
type InteractionHandler func(s Session, i *discordgo.InteractionCreate) error

type AppState struct {
	Config    *Config
	DgSession *discordgo.Session
	Host      Host
	When      *when.Parser

	Orders    *order.Store
	Confirmer *email.Confirmer
	Limiter   *UserLimiter
	Metrics   *metric.Metrics

	StartTime time.Time

	// will be send to Discord
	appCmdInfo map[string]*discordgo.ApplicationCommand
	// handling slash commands, msg components and modals from Discord WSAPI,
	// keyed by command name or custom ID
	appCmdHandler map[string]InteractionHandler
	mu            sync.RWMutex

	AppCloseSignalChan chan os.Signal
	ctx                context.Context
	cancel             context.CancelFunc
}

// Deps are the collaborators NewAppState can't build from Config alone.
type Deps struct {
	DgSession  *discordgo.Session
	Host       Host
	Sender     email.Sender
	Template   email.Template
	Registerer prometheus.Registerer
}

func NewAppState(cfg *Config, deps Deps) *AppState {
	as := &AppState{
		Config:             cfg,
		DgSession:          deps.DgSession,
		Host:               deps.Host,
		StartTime:          time.Now(),
		appCmdInfo:         make(map[string]*discordgo.ApplicationCommand),
		appCmdHandler:      make(map[string]InteractionHandler),
		AppCloseSignalChan: make(chan os.Signal, 1),
	}
	as.ctx, as.cancel = context.WithCancel(context.Background())

	if as.Host == nil && as.DgSession != nil {
		as.Host = NewDgHost(as.DgSession)
	}

	// date parser
	as.When = when.New(nil)
	as.When.Add(en.All...)
	as.When.Add(common.All...)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	as.Metrics = metric.New(registerer)

	as.Orders = order.NewStore(cfg.GetMaxConcurrentOrders())
	as.Limiter = NewUserLimiter(cfg.GetRateLimitPerMinute())

	sender := deps.Sender
	if sender == nil {
		sender = email.NewSMTPSender(email.SMTPConfig{
			Host:       cfg.GetSMTPServer(),
			Port:       cfg.GetSMTPPort(),
			UseTLS:     cfg.GetSMTPUseTLS(),
			Timeout:    cfg.GetSMTPTimeout(),
			Username:   cfg.GetSenderEmail(),
			Password:   cfg.GetSenderPassword(),
			SenderName: deps.Template.SenderName,
		})
	}
	as.Confirmer = email.NewConfirmer(sender, deps.Template, cfg.GetSMTPTimeout())
	as.Confirmer.OnSend(func(d time.Duration, err error) {
		as.Metrics.ObserveEmail(d, email.Reason(err))
	})

	return as
}

// StartBackground launches the metric collector. It stops on
// GracefulShutdown.
func (as *AppState) StartBackground() {
	src := metric.Sources{PendingOrders: as.Orders.Len}
	if as.DgSession != nil {
		src.HeartbeatLatency = as.DgSession.HeartbeatLatency
	}
	go as.Metrics.Run(as.ctx, 15*time.Second, src)
}

// Context is cancelled by GracefulShutdown.
func (as *AppState) Context() context.Context {
	return as.ctx
}

func (as *AppState) GracefulShutdown() {
	as.cancel()
	if as.DgSession != nil {
		if err := as.DgSession.Close(); err != nil {
			slog.Warn("can't close discord session", "error", err)
		}
	}
}

func (as *AppState) GetUptime() time.Duration {
	return time.Since(as.StartTime)
}

func (as *AppState) AddAppCmdInfo(id string, info *discordgo.ApplicationCommand) {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.appCmdInfo[id] = info
}

func (as *AppState) IterateAppCmdInfo(fn func(k string, v *discordgo.ApplicationCommand)) {
	as.mu.RLock()
	defer as.mu.RUnlock()
	for k, v := range as.appCmdInfo {
		fn(k, v)
	}
}

// cleanup appCmdInfo once the commands have been sent to Discord
func (as *AppState) NukeAppCmdInfo() {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.appCmdInfo = make(map[string]*discordgo.ApplicationCommand)
}

func (as *AppState) AddAppCmdHandler(id string, handler InteractionHandler) {
	as.mu.Lock()
	defer as.mu.Unlock()
	as.appCmdHandler[id] = handler
}

func (as *AppState) GetAppCmdHandler(id string) (InteractionHandler, bool) {
	as.mu.RLock()
	defer as.mu.RUnlock()
	handler, ok := as.appCmdHandler[id]
	return handler, ok
}

func (as *AppState) RemoveAppCmdHandler(id string) {
	as.mu.Lock()
	defer as.mu.Unlock()
	delete(as.appCmdHandler, id)
}
