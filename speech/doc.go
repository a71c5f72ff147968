// Package speech turns text into raw PCM audio through the OpenAI speech
// endpoint (tts-1-hd, response_format=pcm).
package speech
