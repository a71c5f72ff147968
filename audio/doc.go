// Package audio holds the sample-level helpers of the pipeline: decoding the
// speech endpoint's PCM, time-stretching through ffmpeg, concatenation, and
// writing WAV or AAC/M4A files.
//
// Samples are mono float32 in [-1, 1].
package audio
