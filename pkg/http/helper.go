package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "agendamento/pkg/errors"
)

// DecodeJSON reads a single JSON object from the request body into target.
func DecodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			return apperrors.TooLarge(maxBytesErr.Limit)
		case errors.Is(err, io.EOF):
			return apperrors.InvalidInput("request body is empty")
		default:
			return apperrors.InvalidInput("invalid JSON: " + err.Error())
		}
	}
	return nil
}
