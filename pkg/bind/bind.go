// Package bind decodes an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/catalogapi/config"
	"github.com/shashiranjanraj/catalogapi/pkg/apperr"
)

// maxBodyBytes returns the configured request body size limit (default 1 MB).
func maxBodyBytes() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil || n <= 0 {
		return 1 << 20
	}
	return n
}

// JSON decodes r.Body as JSON into dest. The body is capped at MAX_BODY_BYTES.
// Unknown fields are ignored. Malformed, empty or oversized bodies yield an
// apperr validation error.
func JSON(r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperr.Invalid("body", "Request body too large (max %d bytes).", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return apperr.Invalid("body", "Request body is required.")
		default:
			return apperr.Wrap(apperr.ErrValidation, err, "Malformed JSON request body.")
		}
	}
	return nil
}
