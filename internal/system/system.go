// Package system runs the host utilities behind the terminal and
// system-check commands.
package system

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
)

var linuxTerminals = []string{"x-terminal-emulator", "gnome-terminal", "konsole", "xfce4-terminal", "xterm"}

type Host struct {
	goos     string
	lookPath func(string) (string, error)
	output   func(ctx context.Context, name string, args ...string) ([]byte, error)
	start    func(name string, args ...string) error
	logger   *slog.Logger
}

func New(logger *slog.Logger) *Host {
	return &Host{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		output: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).Output()
		},
		start: func(name string, args ...string) error {
			cmd := exec.Command(name, args...)
			if err := cmd.Start(); err != nil {
				return err
			}
			return cmd.Process.Release()
		},
		logger: logger,
	}
}

// OpenTerminal launches a terminal window without waiting for it.
func (h *Host) OpenTerminal(_ context.Context) error {
	switch h.goos {
	case "darwin":
		return h.launch("open", "-a", "Terminal")
	case "windows":
		return h.launch("cmd", "/c", "start", "cmd")
	}

	for _, t := range linuxTerminals {
		if _, err := h.lookPath(t); err == nil {
			return h.launch(t)
		}
	}
	return errors.New("no terminal emulator found")
}

func (h *Host) launch(name string, args ...string) error {
	h.logger.Debug("launching", "cmd", name, "args", args)
	if err := h.start(name, args...); err != nil {
		return fmt.Errorf("starting %s: %w", name, err)
	}
	return nil
}

// CPUCount asks the OS for the number of logical CPUs.
func (h *Host) CPUCount(ctx context.Context) (int, error) {
	var (
		name string
		args []string
	)
	switch h.goos {
	case "darwin":
		name, args = "sysctl", []string{"-n", "hw.ncpu"}
	case "linux":
		name = "nproc"
	default:
		return runtime.NumCPU(), nil
	}

	out, err := h.output(ctx, name, args...)
	if err != nil {
		return 0, fmt.Errorf("running %s: %w", name, err)
	}
	return parseCount(out)
}

func parseCount(out []byte) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, fmt.Errorf("parsing cpu count %q: %w", strings.TrimSpace(string(out)), err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid cpu count %d", n)
	}
	return n, nil
}
