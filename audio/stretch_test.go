package audio

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/longreader/errors"
	"github.com/kbukum/longreader/process"
)

func TestStretchConfig_ApplyDefaults(t *testing.T) {
	var cfg StretchConfig
	cfg.ApplyDefaults()

	assert.Equal(t, EngineFFmpeg, cfg.Engine)
	assert.Equal(t, FilterAtempo, cfg.Filter)
	assert.InDelta(t, 1.43, cfg.Rate, 1e-9)
	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, 24000, cfg.SampleRate)
}

func TestNewStretcher_SelectsEngine(t *testing.T) {
	s, err := NewStretcher(StretchConfig{Engine: EngineNone})
	require.NoError(t, err)
	assert.IsType(t, Passthrough{}, s)

	s, err = NewStretcher(StretchConfig{})
	require.NoError(t, err)
	assert.IsType(t, &FFmpegStretcher{}, s)

	_, err = NewStretcher(StretchConfig{Engine: "sox"})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))
}

func TestFFmpegStretcher_Filter(t *testing.T) {
	s := NewFFmpegStretcher(StretchConfig{})
	assert.Equal(t, "atempo=1.43", s.Filter())

	s = NewFFmpegStretcher(StretchConfig{Filter: FilterRubberband, Rate: 1.5})
	assert.Equal(t, "rubberband=tempo=1.5:transients=smooth", s.Filter())
}

func TestFFmpegStretcher_Command(t *testing.T) {
	s := NewFFmpegStretcher(StretchConfig{FFmpegPath: "/opt/ffmpeg"})
	cmd := s.command([]byte{0, 0})

	assert.Equal(t, "/opt/ffmpeg", cmd.Binary)
	want := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "s16le", "-ar", "24000", "-ac", "1", "-i", "pipe:0",
		"-filter:a", "atempo=1.43",
		"-f", "f32le", "-ar", "24000", "-ac", "1", "pipe:1",
	}
	if diff := cmp.Diff(want, cmd.Args); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
	assert.NotNil(t, cmd.Stdin)
}

func TestFFmpegStretcher_RejectsOddPCM(t *testing.T) {
	s := NewFFmpegStretcher(StretchConfig{FFmpegPath: "definitely-not-ffmpeg"})
	_, err := s.Execute(context.Background(), []byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrOddLength)
}

func TestFFmpegStretcher_MissingBinary(t *testing.T) {
	s := NewFFmpegStretcher(StretchConfig{FFmpegPath: "definitely-not-ffmpeg"})
	assert.False(t, s.IsAvailable(context.Background()))

	_, err := s.Execute(context.Background(), make([]byte, 64))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEncoding))
}

func TestFFmpegStretcher_ShortensAudio(t *testing.T) {
	if !process.Available("ffmpeg") {
		t.Skip("ffmpeg not installed")
	}
	s := NewFFmpegStretcher(StretchConfig{})
	pcm := make([]byte, 2*24000) // one second of silence

	out, err := s.Execute(context.Background(), pcm)
	require.NoError(t, err)
	// 24000 / 1.43 ~= 16783 samples; allow for filter edge padding.
	assert.InDelta(t, 16783, len(out), 1200)
}

func TestPassthrough_DecodesOnly(t *testing.T) {
	out, err := Passthrough{}.Execute(context.Background(), []byte{0x00, 0x40, 0x00, 0xc0})
	require.NoError(t, err)
	if diff := cmp.Diff([]float32{0.5, -0.5}, out); diff != "" {
		t.Fatalf("samples mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "stretch", Passthrough{}.Name())
}
