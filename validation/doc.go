// Package validation validates configuration, API requests and CLI
// arguments, reporting failures as errors.AppError with per-field details.
//
// # Struct Tag Validation
//
//	type SpeechRequest struct {
//	    Text  string `json:"text" validate:"required"`
//	    Voice string `json:"voice" validate:"omitempty,voice"`
//	}
//	err := validation.Validate(req)
//
// # Programmatic Validation
//
//	err := validation.New().
//	    Extension("input", in, ".txt").
//	    Extension("output", out, ".m4a", ".wav").
//	    Err()
package validation
