package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/longreader/audio"
	"github.com/kbukum/longreader/logger"
	"github.com/kbukum/longreader/validation"
)

const extTXT = ".txt"

var readFlags struct {
	voice string
}

var readCmd = &cobra.Command{
	Use:   "read <input.txt> <output.m4a|output.wav>",
	Short: "Narrate a text file into an audio file",
	Long: `Reads the input text, splits it at sentence boundaries, rewrites and
synthesizes every chunk concurrently, speeds the speech up and writes the
joined audio. A .wav output is written directly; .m4a is encoded with ffmpeg.`,
	Args: cobra.ExactArgs(2),
	RunE: runRead,
}

func init() {
	readCmd.Flags().StringVar(&readFlags.voice, "voice", "", "speech voice (defaults to speech.voice)")
}

func validateReadArgs(input, output, voice string) error {
	return validation.New().
		Extension("input", input, extTXT).
		Extension("output", output, audio.ExtM4A, audio.ExtWAV).
		OneOf("voice", voice, validation.Voices).
		Err()
}

func runRead(cmd *cobra.Command, args []string) error {
	input, output := args[0], args[1]
	if err := validateReadArgs(input, output, readFlags.voice); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	text, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}

	o, err := a.orchestrator(ctx, true)
	if err != nil {
		return err
	}

	res, err := o.Read(ctx, string(text), readFlags.voice)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := audio.Save(ctx, a.cfg.Stretch.FFmpegPath, res.Samples, res.SampleRate, output); err != nil {
		return err
	}
	fields := logger.DurationFields("save", time.Since(start))
	fields["path"] = output
	fields["chunks"] = res.Chunks
	fields["audio_seconds"] = res.AudioSeconds()
	a.log.Info("audio written", fields)
	return nil
}
