package audioconv

import (
	"bytes"
	"errors"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// EncodeWAV renders mono float32 PCM as a 16-bit little-endian WAV file.
func EncodeWAV(pcm []float32, sampleRate int) ([]byte, error) {
	if len(pcm) == 0 {
		return nil, errors.New("no samples to encode")
	}

	ws := &writeSeeker{}
	enc := wav.NewEncoder(ws, sampleRate, 16, 1, 1)

	data := make([]int, len(pcm))
	for i, x := range pcm {
		data[i] = int(clamp(float64(x), -1, 1) * 32767)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return ws.buf.Bytes(), nil
}

// EncodeLinear16 renders mono float32 PCM as raw signed 16-bit
// little-endian samples, the LINEAR16 encoding of cloud recognizers.
func EncodeLinear16(pcm []float32) []byte {
	out := make([]byte, 2*len(pcm))
	for i, x := range pcm {
		v := int16(clamp(float64(x), -1, 1) * 32767)
		out[2*i] = byte(v)
		out[2*i+1] = byte(uint16(v) >> 8)
	}
	return out
}

// writeSeeker is an in-memory io.WriteSeeker; the wav encoder seeks back
// to patch chunk sizes on Close.
type writeSeeker struct {
	buf bytes.Buffer
	pos int
}

func (w *writeSeeker) Write(p []byte) (int, error) {
	b := w.buf.Bytes()
	if extra := w.pos + len(p) - len(b); extra > 0 {
		w.buf.Write(make([]byte, extra))
		b = w.buf.Bytes()
	}
	copy(b[w.pos:], p)
	w.pos += len(p)
	return len(p), nil
}

func (w *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(w.pos) + offset
	case io.SeekEnd:
		abs = int64(w.buf.Len()) + offset
	default:
		return 0, errors.New("invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("negative position")
	}
	w.pos = int(abs)
	return abs, nil
}
