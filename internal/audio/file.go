package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"voicecmd/internal/speech"
	"voicecmd/pkg/audioconv"
)

// FileSource is a capture adapter for headless runs: each audio file
// dropped into dir is one utterance. Consumed files are renamed with a
// .processed suffix.
type FileSource struct {
	dir    string
	poll   time.Duration
	logger *slog.Logger
}

func NewFileSource(dir string, logger *slog.Logger) *FileSource {
	return &FileSource{
		dir:    dir,
		poll:   200 * time.Millisecond,
		logger: logger,
	}
}

func (f *FileSource) Name() string { return "file" }

func (f *FileSource) Init() error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("creating audio dir: %w", err)
	}
	return nil
}

func (f *FileSource) Close() error { return nil }

// Calibrate is a no-op: recorded files carry no live ambient noise.
func (f *FileSource) Calibrate(_ context.Context, _ time.Duration) error {
	return nil
}

// Capture returns the next file's samples, or ErrCaptureTimeout if none
// shows up within timeout.
func (f *FileSource) Capture(ctx context.Context, timeout time.Duration) ([]float32, error) {
	var deadline <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	ticker := time.NewTicker(f.poll)
	defer ticker.Stop()

	for {
		pcm, err := f.next()
		if err != nil || pcm != nil {
			return pcm, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline:
			return nil, speech.ErrCaptureTimeout
		case <-ticker.C:
		}
	}
}

func (f *FileSource) next() ([]float32, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("reading dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if entry.IsDir() || !audioconv.Supported(entry.Name()) {
			continue
		}

		path := filepath.Join(f.dir, entry.Name())
		pcm, convErr := audioconv.ReadFile(path, audioconv.Options{})
		if err := os.Rename(path, path+".processed"); err != nil {
			return nil, fmt.Errorf("marking %s processed: %w", path, err)
		}
		if convErr != nil {
			f.logger.Warn("skipping undecodable audio file", "path", path, "err", convErr)
			continue
		}

		f.logger.Debug("loaded audio file", "path", path, "samples", len(pcm))
		return pcm, nil
	}
	return nil, nil
}
