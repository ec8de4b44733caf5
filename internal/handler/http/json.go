package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/utafrali/AssistantGo/pkg/errors"
	"github.com/utafrali/AssistantGo/pkg/httputil"
	"github.com/utafrali/AssistantGo/pkg/validator"
)

const maxBodySize = 1 << 20 // 1 MiB

// decodeJSON reads and decodes a JSON request body with a size cap.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return apperrors.InvalidInput("request body is not valid JSON")
	}
	return nil
}

// writeError routes validation errors to the field-level error response and
// everything else to the standard error writer.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		httputil.WriteValidationError(w, err)
		return
	}
	httputil.WriteError(w, r, err, logger)
}
