// Package server exposes the read-aloud pipeline over HTTP using Gin, with
// HTTP/2 cleartext support.
//
// # Routes
//
//   - POST /v1/speech: {"text", "voice"} in, audio/wav out
//   - GET /health: stage availability
//   - GET /livez: process liveness
//   - GET /version: build information
//
// # Middleware
//
// Built-in middleware (server/middleware), applied around the root handler:
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: request id generation and propagation
//   - RequestLogger: request logging with duration tracking
//   - CORS: cross-origin resource sharing
//   - BodySizeLimit: request body size limits
//   - RateLimit: per-client token bucket on the synthesis route
package server
