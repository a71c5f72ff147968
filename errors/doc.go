// Package errors provides the structured error type shared by every
// longreader stage. Each AppError carries a machine-readable code, the HTTP
// status the API server answers with, and optional details. Stage failures
// (remote status errors, oversize input, malformed responses) are AppErrors;
// graph-level failures live in package dag.
package errors
