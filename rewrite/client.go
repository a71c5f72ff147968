package rewrite

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/longreader/errors"
	"github.com/kbukum/longreader/llm"
)

// ToolName is the function tool the model is forced to call.
const ToolName = "read_aloud"

const (
	serviceName = "rewrite"
	resultField = "processed_text"
)

const promptTemplate = `Please generate a speech audio file from the following text by passing it to the ` + "`" + ToolName + "`" + ` tool.

<text>
%s
</text>`

var readAloudTool = llm.FunctionTool(
	ToolName,
	"Converts the provided text into an audio file suitable for text-to-speech systems. "+
		"Before generating the audio, process the text by removing any word wrapping, citations, "+
		"footnotes, or other interrupting content that would interfere with a natural reading flow. "+
		"The processed text must keep exactly the original words and meaning, formatted without interruptions. "+
		"Put the processed text in the '"+resultField+"' parameter.",
	map[string]string{
		resultField: "The text to be read aloud, with word wrapping, citations and other interruptions removed " +
			"so that a text-to-speech system reads it as a human would.",
	},
)

// Client rewrites raw text into speech-ready text with a forced tool call.
// It implements provider.RequestResponse[string, string].
type Client struct {
	cfg Config
	api *openai.Client
}

// New creates a rewrite client.
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

// Execute returns the speech-ready version of text. Inputs over
// MaxInputChars characters fail with INPUT_TOO_LARGE before any request is
// sent.
func (c *Client) Execute(ctx context.Context, text string) (string, error) {
	if n := utf8.RuneCountInString(text); n > c.cfg.MaxInputChars {
		return "", errors.InputTooLarge(serviceName, n, c.cfg.MaxInputChars)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: fmt.Sprintf(promptTemplate, text),
		}},
		Tools:      []openai.Tool{readAloudTool},
		ToolChoice: llm.ForceTool(ToolName),
	})
	if err != nil {
		return "", llm.FromOpenAI(serviceName, err)
	}

	var args struct {
		ProcessedText *string `json:"processed_text"`
	}
	found, err := llm.ToolArguments(resp, ToolName, &args)
	if err != nil {
		return "", errors.UnexpectedResponseShape(serviceName, resultField).WithCause(err)
	}
	if !found {
		return "", errors.UnexpectedResponseShape(serviceName, ToolName)
	}
	if args.ProcessedText == nil || strings.TrimSpace(*args.ProcessedText) == "" {
		return "", errors.UnexpectedResponseShape(serviceName, resultField)
	}
	return *args.ProcessedText, nil
}
