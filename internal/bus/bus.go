// Package bus connects the assistant to a websocket hub. Peers send final
// transcripts as text, the assistant answers with reply messages.
package bus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"voicecmd/internal/speech"
)

const (
	KindTranscript = "transcript"
	KindReply      = "reply"
)

// ErrClosed reports that the hub connection is gone.
var ErrClosed = errors.New("bus connection closed")

type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

// Bus is a hub client that behaves as both listener and speaker for the
// assistant. Replies go to whoever sent the last transcript.
type Bus struct {
	conn   *websocket.Conn
	name   string
	logger *slog.Logger

	writeMu sync.Mutex

	incoming chan Message
	done     chan struct{} // closed when the read loop exits
	quit     chan struct{}
	err      error // read error, valid once done is closed

	closeOnce sync.Once

	peerMu  sync.Mutex
	peer    string
	pending *Message // received by Wait, not yet returned by Listen
}

func Dial(ctx context.Context, wsURL, name string, logger *slog.Logger) (*Bus, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("parsing hub url: %w", err)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dialing hub: %w", err)
	}

	logger.Info("Connected to bus", "url", wsURL)

	b := &Bus{
		conn:     conn,
		name:     name,
		logger:   logger,
		incoming: make(chan Message, 16),
		done:     make(chan struct{}),
		quit:     make(chan struct{}),
	}
	go b.readLoop()
	return b, nil
}

func (b *Bus) readLoop() {
	defer close(b.done)
	for {
		_, data, err := b.conn.ReadMessage()
		if err != nil {
			b.err = err
			return
		}

		var m Message
		if err := json.Unmarshal(data, &m); err != nil {
			b.logger.Warn("Failed to parse", "msg", string(data), "err", err)
			continue
		}
		if m.Kind != KindTranscript || (m.To != "" && m.To != b.name) {
			continue
		}

		select {
		case b.incoming <- m:
		case <-b.quit:
			return
		}
	}
}

// Done is closed when the hub connection drops.
func (b *Bus) Done() <-chan struct{} { return b.done }

// Err returns why the connection dropped, wrapping ErrClosed. It is nil
// while the connection is up.
func (b *Bus) Err() error {
	select {
	case <-b.done:
		if b.err == nil {
			return ErrClosed
		}
		return fmt.Errorf("%w: %v", ErrClosed, b.err)
	default:
		return nil
	}
}

// Wait blocks until a transcript arrives and remembers its sender, without
// consuming it: the next Listen returns it.
func (b *Bus) Wait(ctx context.Context) error {
	b.peerMu.Lock()
	ready := b.pending != nil
	b.peerMu.Unlock()
	if ready {
		return nil
	}

	select {
	case m := <-b.incoming:
		b.peerMu.Lock()
		b.peer = m.From
		b.pending = &m
		b.peerMu.Unlock()
		return nil
	case <-b.done:
		return b.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Listen waits for the next transcript addressed to this client.
func (b *Bus) Listen(ctx context.Context, timeout time.Duration) (string, error) {
	b.peerMu.Lock()
	if m := b.pending; m != nil {
		b.pending = nil
		b.peerMu.Unlock()
		return m.Content, nil
	}
	b.peerMu.Unlock()

	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}

	select {
	case m := <-b.incoming:
		b.setPeer(m.From)
		return m.Content, nil
	case <-b.done:
		return "", speech.NewServiceError("bus", b.Err())
	case <-expired:
		return "", speech.ErrCaptureTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Calibrate has nothing to measure on a text channel.
func (b *Bus) Calibrate(context.Context, time.Duration) error {
	return nil
}

// Speak sends text as a reply to the last peer.
func (b *Bus) Speak(_ context.Context, text string) error {
	return b.Write(Message{
		From:    b.name,
		To:      b.getPeer(),
		Kind:    KindReply,
		Content: text,
	})
}

func (b *Bus) Write(m Message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	if err := b.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return speech.NewServiceError("bus", err)
	}
	return nil
}

func (b *Bus) Close() error {
	var err error
	b.closeOnce.Do(func() {
		close(b.quit)
		b.writeMu.Lock()
		_ = b.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		b.writeMu.Unlock()
		err = b.conn.Close()
	})
	return err
}

func (b *Bus) setPeer(p string) {
	b.peerMu.Lock()
	defer b.peerMu.Unlock()
	b.peer = p
}

func (b *Bus) getPeer() string {
	b.peerMu.Lock()
	defer b.peerMu.Unlock()
	return b.peer
}
