package system

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type calls struct {
	started []string
	ran     []string
}

func fakeHost(goos string, installed map[string]bool, out string, outErr error) (*Host, *calls) {
	c := &calls{}
	h := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	h.goos = goos
	h.lookPath = func(name string) (string, error) {
		if installed[name] {
			return "/usr/bin/" + name, nil
		}
		return "", errors.New("not found")
	}
	h.output = func(_ context.Context, name string, _ ...string) ([]byte, error) {
		c.ran = append(c.ran, name)
		return []byte(out), outErr
	}
	h.start = func(name string, _ ...string) error {
		c.started = append(c.started, name)
		return nil
	}
	return h, c
}

func TestOpenTerminal(t *testing.T) {
	h, c := fakeHost("darwin", nil, "", nil)
	require.NoError(t, h.OpenTerminal(context.Background()))
	assert.Equal(t, []string{"open"}, c.started)

	h, c = fakeHost("linux", map[string]bool{"konsole": true, "xterm": true}, "", nil)
	require.NoError(t, h.OpenTerminal(context.Background()))
	assert.Equal(t, []string{"konsole"}, c.started)

	h, _ = fakeHost("linux", nil, "", nil)
	assert.EqualError(t, h.OpenTerminal(context.Background()), "no terminal emulator found")
}

func TestCPUCount(t *testing.T) {
	h, c := fakeHost("darwin", nil, "8\n", nil)
	n, err := h.CPUCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, []string{"sysctl"}, c.ran)

	h, c = fakeHost("linux", nil, "4", nil)
	n, err = h.CPUCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []string{"nproc"}, c.ran)

	h, _ = fakeHost("plan9", nil, "", nil)
	n, err = h.CPUCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, runtime.NumCPU(), n)
}

func TestCPUCountFailure(t *testing.T) {
	h, _ := fakeHost("linux", nil, "", errors.New("exec: nproc not found"))
	_, err := h.CPUCount(context.Background())
	assert.ErrorContains(t, err, "running nproc")

	h, _ = fakeHost("linux", nil, "lots", nil)
	_, err = h.CPUCount(context.Background())
	assert.ErrorContains(t, err, "parsing cpu count")
}
