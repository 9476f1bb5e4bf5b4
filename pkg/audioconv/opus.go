//go:build opus

package audioconv

import (
	"errors"
	"io"

	"github.com/pekim/opus"
)

// opus always decodes at 48 kHz.
const opusRate = 48000

func decodeOpus(r io.ReadSeeker) (clip, error) {
	dec, err := opus.NewDecoder(r)
	if err != nil {
		return clip{}, err
	}
	defer dec.Destroy()

	channels := dec.ChannelCount()
	if channels <= 0 {
		channels = 1
	}

	var data []float32
	buf := make([]int16, opusRate/2*channels)
	for {
		n, err := dec.Read(buf)
		if n > 0 {
			data = append(data, int16ToFloat(buf[:n*channels])...)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return clip{}, err
		}
	}
	if len(data) == 0 {
		return clip{}, errors.New("no samples")
	}
	return clip{data: data, rate: opusRate, channels: channels}, nil
}

func int16ToFloat(in []int16) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v) / 32768
	}
	return out
}
