// Package llm holds the pieces shared by the stages that talk to
// OpenAI-compatible HTTP APIs through go-openai: client construction, error
// mapping to AppError, and function-tool helpers for structured output.
package llm
