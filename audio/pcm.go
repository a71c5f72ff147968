package audio

import (
	"encoding/binary"
	stderrors "errors"
	"fmt"
	"math"

	"github.com/kbukum/longreader/errors"
)

// ErrOddLength is returned for 16-bit PCM whose byte length is not even.
var ErrOddLength = stderrors.New("audio: pcm length is not a multiple of the sample size")

// DecodePCM16 converts signed 16-bit little-endian mono PCM to samples.
func DecodePCM16(pcm []byte) ([]float32, error) {
	if len(pcm)%2 != 0 {
		return nil, errors.Encoding("decode", fmt.Errorf("%w: %d bytes", ErrOddLength, len(pcm)))
	}
	out := make([]float32, len(pcm)/2)
	for i := range out {
		v := int16(binary.LittleEndian.Uint16(pcm[2*i:]))
		out[i] = float32(v) / 32768
	}
	return out, nil
}

// decodeFloat32 converts f32le bytes, as ffmpeg writes them, to samples.
func decodeFloat32(raw []byte) ([]float32, error) {
	if len(raw)%4 != 0 {
		return nil, errors.Encoding("decode", fmt.Errorf("%w: %d bytes", ErrOddLength, len(raw)))
	}
	out := make([]float32, len(raw)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
	}
	return out, nil
}

// toPCM16 clamps a sample to [-1, 1] and scales it to int16.
func toPCM16(s float32) int16 {
	switch {
	case s > 1:
		s = 1
	case s < -1:
		s = -1
	}
	return int16(math.Round(float64(s) * 32767))
}

// Concat joins parts in order into one buffer.
func Concat(parts [][]float32) []float32 {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]float32, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Duration returns the play time of n samples at rate in seconds.
func Duration(n, rate int) float64 {
	if rate <= 0 {
		return 0
	}
	return float64(n) / float64(rate)
}
