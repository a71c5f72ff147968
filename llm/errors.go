package llm

import (
	"context"
	stderrors "errors"
	"net"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/longreader/errors"
)

// FromOpenAI converts an error returned by go-openai into an AppError.
// Non-success HTTP answers become RemoteService errors carrying the upstream
// status and message; context errors pass through unchanged so callers can
// tell cancellation apart from remote failure.
func FromOpenAI(service string, err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *openai.APIError
	if stderrors.As(err, &apiErr) {
		return errors.RemoteService(service, apiErr.HTTPStatusCode, apiErr.Message).WithCause(err)
	}

	var reqErr *openai.RequestError
	if stderrors.As(err, &reqErr) {
		diagnostic := string(reqErr.Body)
		if diagnostic == "" && reqErr.Err != nil {
			diagnostic = reqErr.Err.Error()
		}
		return errors.RemoteService(service, reqErr.HTTPStatusCode, diagnostic).WithCause(err)
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return errors.Timeout(service).WithCause(err)
	}

	return errors.RemoteService(service, 0, err.Error()).WithCause(err)
}
