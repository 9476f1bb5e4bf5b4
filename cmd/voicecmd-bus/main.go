package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	log "log/slog"

	"voicecmd/internal/assistant"
	"voicecmd/internal/bus"
	"voicecmd/internal/config"
	"voicecmd/internal/journal"
	"voicecmd/internal/logging"
	"voicecmd/internal/notify"
	"voicecmd/internal/system"
)

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	configPath := cli.StringP("config", "c", "voicecmd.yaml", "Config file path")
	url := cli.StringP("url", "u", "", "Url of hub (overrides config)")
	reconn := cli.DurationP("reconn", "r", 2*time.Second, "Delay between reconnect attempts")
	logLevel := cli.StringP("log", "l", "", "Log level (overrides config)")
	cli.Parse()

	godotenv.Load(*envFile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("Failed to load config", "path", *configPath, "err", err)
		os.Exit(1)
	}
	if *url != "" {
		cfg.Bus.URL = *url
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	log.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logPath, err := journal.DefaultPath(cfg.DataDir)
	if err != nil {
		log.Error("Failed to resolve data dir", "err", err)
		os.Exit(1)
	}
	deps := assistant.Deps{
		Notifier: notify.Noop{},
		Host:     system.New(logger),
		Messages: journal.New(logPath),
	}
	opts := assistant.Options{
		UserName:      cfg.UserName,
		AssistantName: cfg.AssistantName,
		ListenTimeout: cfg.Conversation.ListenTimeout,
		RecordTimeout: cfg.Conversation.RecordTimeout,
		Calibration:   cfg.Conversation.Calibration,
		Pause:         cfg.Conversation.Pause,
	}

	for {
		b, err := bus.Dial(ctx, cfg.Bus.URL, cfg.Bus.Name, logger)
		if err != nil {
			log.Warn("Failed to connect to bus", "url", cfg.Bus.URL, "err", err)
		} else {
			deps.Listener, deps.Speaker = b, b
			log.Info("Bridge ready", "name", cfg.Bus.Name)

			err = serve(ctx, b, assistant.New(deps, opts, logger))
			b.Close()
			if ctx.Err() != nil {
				return
			}
			log.Warn("Trying to reconnect on", "url", cfg.Bus.URL, "err", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(*reconn):
		}
	}
}
