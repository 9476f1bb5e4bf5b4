package main

import (
	"encoding/json"
	"fmt"
	"os"

	cli "github.com/spf13/pflag"

	log "log/slog"

	"voicecmd/internal/config"
	"voicecmd/internal/journal"
)

func main() {
	configPath := cli.StringP("config", "c", "voicecmd.yaml", "Config file path")
	file := cli.StringP("file", "f", "", "Message log path (overrides config)")
	tail := cli.IntP("tail", "n", 0, "Show only the last N messages")
	asJSON := cli.Bool("json", false, "Print raw JSON lines")
	cli.Parse()

	path := *file
	if path == "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("Failed to load config", "path", *configPath, "err", err)
			os.Exit(1)
		}
		path, err = journal.DefaultPath(cfg.DataDir)
		if err != nil {
			log.Error("Failed to resolve data dir", "err", err)
			os.Exit(1)
		}
	}

	entries, err := journal.ReadAll(path)
	if err != nil {
		log.Error("Failed to read messages", "path", path, "err", err)
		os.Exit(1)
	}
	if *tail > 0 && len(entries) > *tail {
		entries = entries[len(entries)-*tail:]
	}

	if len(entries) == 0 {
		fmt.Println("אין הודעות")
		return
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	for _, e := range entries {
		if *asJSON {
			enc.Encode(e)
			continue
		}
		fmt.Printf("%s  %s\n", displayTime(e), e.Message)
	}
}

func displayTime(e journal.Entry) string {
	ts, err := e.Timestamp()
	if err != nil {
		return e.Time
	}
	return ts.Format("2006-01-02 15:04")
}
