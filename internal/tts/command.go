// Package tts speaks text aloud. Command drives an external synthesizer
// binary; the espeak subpackage links espeak-ng in-process.
package tts

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

type CommandConfig struct {
	Binary string // say, espeak, espeak-ng or any program taking text as last argument
	Voice  string
	Rate   int // words per minute, 0 = engine default
}

// Command speaks by running a synthesizer binary and waiting for it to exit.
type Command struct {
	cfg    CommandConfig
	logger *slog.Logger
}

func NewCommand(cfg CommandConfig, logger *slog.Logger) *Command {
	if cfg.Binary == "" {
		cfg.Binary = "espeak-ng"
	}
	return &Command{cfg: cfg, logger: logger}
}

// Available reports whether the configured binary is on PATH.
func (c *Command) Available() bool {
	_, err := exec.LookPath(c.cfg.Binary)
	return err == nil
}

func (c *Command) Speak(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	cmd := exec.CommandContext(ctx, c.cfg.Binary, c.args(text)...)
	c.logger.Debug("speaking", "cmd", strings.Join(cmd.Args, " "))
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("running %s: %w (output: %s)", c.cfg.Binary, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (c *Command) args(text string) []string {
	var args []string
	switch filepath.Base(c.cfg.Binary) {
	case "say":
		if c.cfg.Voice != "" {
			args = append(args, "-v", c.cfg.Voice)
		}
		if c.cfg.Rate > 0 {
			args = append(args, "-r", strconv.Itoa(c.cfg.Rate))
		}
	case "espeak", "espeak-ng":
		if c.cfg.Voice != "" {
			args = append(args, "-v", c.cfg.Voice)
		}
		if c.cfg.Rate > 0 {
			args = append(args, "-s", strconv.Itoa(c.cfg.Rate))
		}
	case "spd-say":
		args = append(args, "--wait")
		if c.cfg.Voice != "" {
			args = append(args, "-l", c.cfg.Voice)
		}
	}
	return append(args, text)
}
