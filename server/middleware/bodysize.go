package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/kbukum/longreader/errors"
)

// BodySizeLimit restricts request bodies to maxBytes. A declared length over
// the limit is rejected up front; otherwise reads past the limit fail and the
// handler reports the error. A non-positive limit disables the check.
func BodySizeLimit(maxBytes int64) Middleware {
	return func(next http.Handler) http.Handler {
		if maxBytes <= 0 {
			return next
		}
		body, _ := json.Marshal(errors.New(errors.ErrCodeInputTooLarge,
			"request body too large", http.StatusRequestEntityTooLarge).ToResponse())
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				writeError(w, http.StatusRequestEntityTooLarge, body)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
