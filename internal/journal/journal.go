// Package journal is the append-only log of dictated voice notes: one JSON
// object per line, never rewritten.
package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// TimeLayout matches Python's datetime.isoformat() so existing logs keep
// sorting and parsing the same way.
const TimeLayout = "2006-01-02T15:04:05.999999"

// FileName is the log's name inside the data directory.
const FileName = "messages.jsonl"

type Entry struct {
	Time    string `json:"time"`
	Message string `json:"message"`
}

// Timestamp parses Entry.Time in the local zone.
func (e Entry) Timestamp() (time.Time, error) {
	return time.ParseInLocation(TimeLayout, e.Time, time.Local)
}

type Log struct {
	path string
	now  func() time.Time

	mu sync.Mutex
}

func New(path string) *Log {
	return &Log{path: path, now: time.Now}
}

// DefaultPath resolves the per-user log location under dataDir, expanding
// a leading "~".
func DefaultPath(dataDir string) (string, error) {
	dir, err := ExpandHome(dataDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

func ExpandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

func (l *Log) Path() string { return l.path }

// Append writes one record with a single write call.
func (l *Log) Append(message string) (Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := Entry{Time: l.now().Format(TimeLayout), Message: message}
	line, err := json.Marshal(e)
	if err != nil {
		return Entry{}, fmt.Errorf("encoding entry: %w", err)
	}
	line = append(line, '\n')

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return Entry{}, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return Entry{}, fmt.Errorf("opening log: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return Entry{}, fmt.Errorf("writing log: %w", err)
	}
	if err := f.Close(); err != nil {
		return Entry{}, fmt.Errorf("closing log: %w", err)
	}
	return e, nil
}

// ReadAll returns every entry in file order. A missing log is empty.
func ReadAll(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening log: %w", err)
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			return entries, fmt.Errorf("line %d: %w", n, err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return entries, fmt.Errorf("reading log: %w", err)
	}
	return entries, nil
}
