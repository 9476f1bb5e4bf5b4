// Package audioconv converts between audio files and the mono 16 kHz
// float32 PCM that the recognizers consume.
package audioconv

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

// SampleRate is the rate every decoder resamples to.
const SampleRate = 16000

var (
	errOpusDisabled = errors.New("opus support disabled: build with -tags opus")
	errUnknown      = errors.New("unknown audio format")
)

type Options struct {
	MaxDuration time.Duration // 0 = keep everything
}

// clip is decoded audio before normalization: interleaved samples in
// [-1, 1] at the source rate.
type clip struct {
	data     []float32
	rate     int
	channels int
}

type decoder func(r io.ReadSeeker) (clip, error)

var decoders = map[string]decoder{
	"wav": decodeWAV,
	"mp3": decodeMP3,
	"ogg": decodeOgg,
}

var extFormats = map[string]string{
	".wav":  "wav",
	".wave": "wav",
	".mp3":  "mp3",
	".ogg":  "ogg",
	".oga":  "ogg",
	".opus": "ogg",
}

// Supported reports whether path has an extension the decoders understand.
func Supported(path string) bool {
	_, ok := extFormats[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ReadFile decodes an audio file into mono 16 kHz PCM. The format comes
// from the extension, or from the file header when the extension is unknown.
func ReadFile(path string, opt Options) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	format, ok := extFormats[strings.ToLower(filepath.Ext(path))]
	if !ok {
		if format, err = sniff(f); err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
	}

	c, err := decoders[format](f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", format, err)
	}
	return c.normalize(opt), nil
}

// sniff identifies the container from its first bytes and rewinds r.
func sniff(r io.ReadSeeker) (string, error) {
	head := make([]byte, 4)
	n, _ := io.ReadFull(r, head)
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	head = head[:n]

	switch {
	case bytes.HasPrefix(head, []byte("RIFF")):
		return "wav", nil
	case bytes.HasPrefix(head, []byte("OggS")):
		return "ogg", nil
	case bytes.HasPrefix(head, []byte("ID3")),
		len(head) >= 2 && head[0] == 0xFF && head[1]&0xE0 == 0xE0:
		return "mp3", nil
	}
	return "", errUnknown
}

// normalize downmixes to mono, resamples to SampleRate and truncates.
func (c clip) normalize(opt Options) []float32 {
	x := resampleLinear(c.mono(), c.rate, SampleRate)
	if opt.MaxDuration > 0 {
		limit := int(int64(opt.MaxDuration) * SampleRate / int64(time.Second))
		if len(x) > limit {
			x = x[:limit]
		}
	}
	return x
}

func (c clip) mono() []float32 {
	if c.channels <= 1 {
		return c.data
	}
	frames := len(c.data) / c.channels
	out := make([]float32, frames)
	for i := range out {
		var sum float32
		for _, s := range c.data[i*c.channels : (i+1)*c.channels] {
			sum += s
		}
		out[i] = sum / float32(c.channels)
	}
	return out
}

func decodeWAV(r io.ReadSeeker) (clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return clip{}, errors.New("invalid wav header")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return clip{}, err
	}
	if buf == nil || len(buf.Data) == 0 {
		return clip{}, errors.New("no samples")
	}

	depth := int(dec.BitDepth)
	if depth == 0 {
		depth = 16
	}
	scale := 1 / float64(int64(1)<<(depth-1))
	data := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		data[i] = float32(clamp(float64(v)*scale, -1, 1))
	}

	c := clip{data: data, rate: int(dec.SampleRate), channels: int(dec.NumChans)}
	if buf.Format != nil {
		c.rate = buf.Format.SampleRate
		c.channels = buf.Format.NumChannels
	}
	if c.rate <= 0 {
		return clip{}, errors.New("missing sample rate")
	}
	return c, nil
}

func decodeMP3(r io.ReadSeeker) (clip, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return clip{}, err
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return clip{}, err
	}
	// go-mp3 always emits 16-bit little-endian stereo.
	return clip{data: pcm16LE(raw), rate: dec.SampleRate(), channels: 2}, nil
}

// decodeOgg tries Vorbis first and falls back to Opus.
func decodeOgg(r io.ReadSeeker) (clip, error) {
	data, format, vorbisErr := oggvorbis.ReadAll(r)
	if vorbisErr == nil {
		if format == nil || format.Channels <= 0 || format.SampleRate <= 0 {
			return clip{}, errors.New("invalid vorbis stream")
		}
		return clip{data: data, rate: format.SampleRate, channels: format.Channels}, nil
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return clip{}, err
	}
	c, err := decodeOpus(r)
	if err != nil {
		return clip{}, fmt.Errorf("not vorbis (%v), not opus: %w", vorbisErr, err)
	}
	return c, nil
}

func pcm16LE(b []byte) []float32 {
	out := make([]float32, len(b)/2)
	for i := range out {
		v := int16(uint16(b[2*i]) | uint16(b[2*i+1])<<8)
		out[i] = float32(v) / 32768
	}
	return out
}

// resampleLinear interpolates between neighbouring samples. Good enough for
// speech going into a recognizer.
func resampleLinear(in []float32, inRate, outRate int) []float32 {
	if inRate == outRate || len(in) == 0 {
		return in
	}
	step := float64(inRate) / float64(outRate)
	n := int(math.Ceil(float64(len(in)) * float64(outRate) / float64(inRate)))
	out := make([]float32, n)
	last := len(in) - 1
	for i := range out {
		pos := float64(i) * step
		j := int(pos)
		if j >= last {
			out[i] = in[last]
			continue
		}
		frac := float32(pos - float64(j))
		out[i] = in[j] + (in[j+1]-in[j])*frac
	}
	return out
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
