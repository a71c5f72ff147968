package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// FunctionTool declares a function tool whose parameters are an object of
// required string properties.
func FunctionTool(name, description string, properties map[string]string) openai.Tool {
	props := make(map[string]any, len(properties))
	required := make([]string, 0, len(properties))
	for prop, desc := range properties {
		props[prop] = map[string]any{"type": "string", "description": desc}
		required = append(required, prop)
	}
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters: map[string]any{
				"type":       "object",
				"properties": props,
				"required":   required,
			},
		},
	}
}

// ForceTool is a tool_choice that requires the model to call name.
func ForceTool(name string) openai.ToolChoice {
	return openai.ToolChoice{
		Type:     openai.ToolTypeFunction,
		Function: openai.ToolFunction{Name: name},
	}
}

// ToolArguments finds the first call to tool in resp and decodes its
// arguments into result. It returns false when no such call exists.
func ToolArguments(resp openai.ChatCompletionResponse, tool string, result any) (bool, error) {
	for _, choice := range resp.Choices {
		for _, call := range choice.Message.ToolCalls {
			if call.Function.Name != tool {
				continue
			}
			args := extractJSON(call.Function.Arguments)
			if err := json.Unmarshal([]byte(args), result); err != nil {
				return true, fmt.Errorf("llm: decode %s arguments: %w", tool, err)
			}
			return true, nil
		}
	}
	return false, nil
}

// extractJSON pulls a JSON object from LLM output that may contain markdown fences.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)

	// Strip markdown code fences
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s[3:], "\n"); idx >= 0 {
			s = s[3+idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	// Find first { and last }
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
