// Package process runs external tools (ffmpeg) with context-driven
// termination: cancellation sends SIGTERM to the process group and SIGKILL
// after a grace period.
package process
