//go:build !opus

package audioconv

import "io"

func decodeOpus(io.ReadSeeker) (clip, error) {
	return clip{}, errOpusDisabled
}
