package speech

import (
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/longreader/errors"
	"github.com/kbukum/longreader/llm"
)

const serviceName = "speech"

// SampleRate is the rate of the PCM audio the endpoint returns.
const SampleRate = 24000

// Request is one synthesis call. An empty Voice uses the configured default.
type Request struct {
	Text  string
	Voice string
}

// Client synthesizes speech as raw PCM: signed 16-bit little-endian mono
// at 24 kHz. It implements provider.RequestResponse[Request, []byte].
type Client struct {
	cfg Config
	api *openai.Client
}

// New creates a speech client.
func New(cfg Config) *Client {
	cfg.ApplyDefaults()
	return &Client{
		cfg: cfg,
		api: llm.NewClient(llm.ClientConfig{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Timeout: cfg.Timeout,
		}),
	}
}

// Name returns the stage name.
func (c *Client) Name() string { return serviceName }

// IsAvailable reports whether credentials are configured.
func (c *Client) IsAvailable(_ context.Context) bool { return c.cfg.APIKey != "" }

// Voice returns the default voice.
func (c *Client) Voice() string { return c.cfg.Voice }

// Execute returns the PCM bytes for req. Text over MaxInputChars characters
// fails with INPUT_TOO_LARGE before any request is sent.
func (c *Client) Execute(ctx context.Context, req Request) ([]byte, error) {
	if n := utf8.RuneCountInString(req.Text); n > c.cfg.MaxInputChars {
		return nil, errors.InputTooLarge(serviceName, n, c.cfg.MaxInputChars)
	}
	voice := req.Voice
	if voice == "" {
		voice = c.cfg.Voice
	}

	resp, err := c.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(c.cfg.Model),
		Input:          req.Text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatPcm,
	})
	if err != nil {
		return nil, llm.FromOpenAI(serviceName, err)
	}
	defer resp.Close()

	pcm, err := io.ReadAll(resp)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.RemoteService(serviceName, 0, fmt.Sprintf("reading audio: %v", err)).WithCause(err)
	}
	return pcm, nil
}
