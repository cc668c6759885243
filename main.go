package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"orderbot/src-server/email"
	"orderbot/src-server/handler"
	"orderbot/src-server/handler/order_handler"
	"orderbot/src-server/route"
	"orderbot/src-server/scheduler"
	"orderbot/src-server/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

var logLevel = new(slog.LevelVar)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Info(err.Error())
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC1123Z,
		}),
	))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	cfg, err := utils.LoadConfig(envOr("CONFIG_PATH", "config.json"))
	if err != nil {
		slog.Error("can't load config", "error", err)
		os.Exit(1)
	}
	logLevel.Set(cfg.GetLogLevel())

	tmpl, err := email.LoadTemplate(envOr("EMAIL_TEMPLATE_PATH", "email_template.json"))
	if err != nil {
		slog.Error("can't load email template", "error", err)
		os.Exit(1)
	}

	dg, err := discordgo.New("Bot " + cfg.GetDiscordBotToken())
	if err != nil {
		slog.Error("can't create discord session", "error", err)
		os.Exit(1)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	// There are 2 important things (and others) inside the AppState:
	// - appCmdInfo: a map of all slash commands
	// - appCmdHandler: a map of all slash command handlers
	as := utils.NewAppState(cfg, utils.Deps{
		DgSession:  dg,
		Template:   tmpl,
		Registerer: prometheus.DefaultRegisterer,
	})

	// injecting interaction handlers into appCmdInfo, appCmdHandler in AppState
	order_handler.Init(as)
	handler.Diagnostics(as)
	handler.Ping(as)

	// tell discordgo how to handle interactions from Discord (w/ appCmdHandler)
	dg.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		as.HandleInteraction(s, i)
	})
	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("logged in", "username", r.User.Username, "guilds", len(r.Guilds))
	})

	// open a connection to Discord
	if err := dg.Open(); err != nil {
		slog.Error("can't open discord connection", "error", err)
		os.Exit(1)
	}

	// tell Discord what commands we have (w/ appCmdInfo)
	if _, err := dg.ApplicationCommandBulkOverwrite(
		dg.State.User.ID,
		cfg.GetDiscordGuildID(),
		func() []*discordgo.ApplicationCommand {
			var cmds []*discordgo.ApplicationCommand
			as.IterateAppCmdInfo(func(k string, v *discordgo.ApplicationCommand) {
				cmds = append(cmds, v)
			})
			return cmds
		}()); err != nil {
		slog.Error("can't create slash commands", "error", err.Error())
	}

	// cleanup appCmdInfo from memory
	as.NukeAppCmdInfo()
	runtime.GC()

	as.StartBackground()
	sweepInterval := scheduler.SweepInterval(cfg.GetMaxOrderAge())
	go scheduler.OrderSweep(as, sweepInterval)
	go scheduler.LimiterCleanup(as, sweepInterval)

	// http server for metrics and health checks
	var srv *http.Server
	if addr := cfg.GetMetricsAddr(); addr != "" {
		muxer := http.NewServeMux()
		route.Metrics(muxer, prometheus.DefaultGatherer)
		route.Health(muxer, as)
		srv = &http.Server{Addr: addr, Handler: route.LogMiddleware(muxer), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("cannot start HTTP server", "error", err)
				as.AppCloseSignalChan <- syscall.SIGTERM
			}
		}()
	}

	slog.Info("app is now running, press Ctrl+C to exit")

	signal.Notify(as.AppCloseSignalChan, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-as.AppCloseSignalChan

	slog.Info("Gracefully shutting down...")
	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Warn("can't stop HTTP server", "error", err)
		}
	}
	as.GracefulShutdown()
}
