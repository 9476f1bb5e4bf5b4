package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	log "log/slog"

	"voicecmd/internal/config"
	"voicecmd/internal/logging"
	"voicecmd/internal/proxy"
)

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	configPath := cli.StringP("config", "c", "voicecmd.yaml", "Config file path")
	logLevel := cli.StringP("log", "l", "", "Log level (overrides config)")
	proxyAddr := cli.StringP("proxy", "p", "", "Socks proxy address for cloud speech")
	cli.Parse()

	godotenv.Load(*envFile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("Failed to load config", "path", *configPath, "err", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *proxyAddr != "" {
		cfg.STT.Proxy = *proxyAddr
	}

	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	log.SetDefault(logger)

	log.Info("Booting up")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpClient, err := proxy.NewClient(cfg.STT.Proxy, cfg.STT.Timeout)
	if err != nil {
		log.Error("Failed to set up proxy", "proxy", cfg.STT.Proxy, "err", err)
		os.Exit(1)
	}

	a, cl, err := build(cfg, httpClient, logger)
	if err != nil {
		cl.Close()
		log.Error("Failed to start", "err", err)
		os.Exit(1)
	}

	log.Info("Boot up - successful")

	err = runMenu(ctx, os.Stdin, os.Stdout, cfg.AssistantName+" Voice Interface", a)
	cl.Close()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Failed", "err", err)
		os.Exit(1)
	}
}
