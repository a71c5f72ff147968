// Package rewrite prepares raw text for speech synthesis. A language model
// is forced to call the read_aloud tool, whose processed_text argument is the
// input with word wrapping, citations and footnotes removed.
//
// Any endpoint that speaks the OpenAI chat completions protocol with
// function tools works; the default is Anthropic's compatible endpoint.
package rewrite
