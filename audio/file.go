package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kbukum/longreader/errors"
	"github.com/kbukum/longreader/process"
)

// Output formats accepted by Save.
const (
	ExtWAV = ".wav"
	ExtM4A = ".m4a"
)

// EncodeM4A encodes samples to AAC in an MP4 container at path using ffmpeg.
func EncodeM4A(ctx context.Context, ffmpeg string, samples []float32, rate int, path string) error {
	var wav bytes.Buffer
	if err := WriteWAV(&wav, samples, rate); err != nil {
		return errors.Encoding("m4a", err)
	}
	_, err := process.Run(ctx, process.Command{
		Binary: ffmpeg,
		Args: []string{
			"-hide_banner", "-loglevel", "error", "-y",
			"-f", "wav", "-i", "pipe:0",
			"-c:a", "aac", "-b:a", "128k", "-movflags", "+faststart",
			path,
		},
		Stdin: &wav,
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Encoding("m4a", err)
	}
	return nil
}

// Save writes samples to path, choosing the format from its extension.
func Save(ctx context.Context, ffmpeg string, samples []float32, rate int, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtWAV:
		f, err := os.Create(path)
		if err != nil {
			return errors.Encoding("wav", err)
		}
		if err := WriteWAV(f, samples, rate); err != nil {
			_ = f.Close()
			return errors.Encoding("wav", err)
		}
		if err := f.Close(); err != nil {
			return errors.Encoding("wav", err)
		}
		return nil
	case ExtM4A:
		return EncodeM4A(ctx, ffmpeg, samples, rate, path)
	default:
		return errors.InvalidInput("output", fmt.Sprintf("unsupported output extension %q", filepath.Ext(path)))
	}
}
