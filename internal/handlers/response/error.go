package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"gitlab.com/codechallenge.net/internal/static/errs"
)

type ErrorMessage struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

func WriteError(w http.ResponseWriter, err ErrorMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	_ = json.NewEncoder(w).Encode(err)
}

// FromError maps pipeline errors to a client facing message.
// Unknown errors become a generic 500.
func FromError(err error) ErrorMessage {
	switch {
	case errors.Is(err, errs.ErrInvalidSubmission), errors.Is(err, errs.ErrUnsupportedLanguage):
		return ErrorMessage{Message: err.Error(), StatusCode: http.StatusBadRequest}
	case errors.Is(err, errs.ErrNoTestCases):
		return ErrorMessage{Message: err.Error(), StatusCode: http.StatusUnprocessableEntity}
	case errors.Is(err, errs.ErrSubmissionNotFound):
		return ErrorMessage{Message: err.Error(), StatusCode: http.StatusNotFound}
	default:
		return ErrorMessage{Message: "failed to process submission", StatusCode: http.StatusInternalServerError}
	}
}
