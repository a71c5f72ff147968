package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Remote stage errors
const (
	// ErrCodeRemoteService indicates a rewrite or speech backend answered with a non-success status.
	ErrCodeRemoteService ErrorCode = "REMOTE_SERVICE_ERROR"
	// ErrCodeUnexpectedResponse indicates a backend answered successfully but without the expected field.
	ErrCodeUnexpectedResponse ErrorCode = "UNEXPECTED_RESPONSE_SHAPE"
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeRateLimited indicates the upstream rate limited the caller.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInputTooLarge indicates a payload exceeds a stage's size bound.
	ErrCodeInputTooLarge ErrorCode = "INPUT_TOO_LARGE"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeEncoding indicates audio decoding or encoding failed.
	ErrCodeEncoding ErrorCode = "ENCODING_ERROR"
)

// Retryable marks codes a caller may retry. longreader itself never retries;
// the flag is surfaced to API clients.
var retryableCodes = map[ErrorCode]bool{
	ErrCodeTimeout:       true,
	ErrCodeRateLimited:   true,
	ErrCodeRemoteService: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
