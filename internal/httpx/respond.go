package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorBody is the failure envelope: {"ok": false, "error": "..."}.
type ErrorBody struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// JSON writes body with the given status code.
func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// OK writes {"ok": true} merged with the given fields.
func OK(w http.ResponseWriter, fields map[string]any) {
	body := map[string]any{"ok": true}
	for k, v := range fields {
		body[k] = v
	}
	JSON(w, http.StatusOK, body)
}

// Fail writes the failure envelope with an explicit status.
func Fail(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorBody{OK: false, Error: msg})
}

// Error maps err to a status and writes the failure envelope. Internal errors
// are logged and replaced by a generic message.
func Error(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.Error("request failed", slog.Any("error", err))
		}
		Fail(w, status, "internal error")
		return
	}
	Fail(w, status, err.Error())
}

// Bind decodes the JSON body into dst and runs struct validation. Every
// failure wraps ErrValidation.
func Bind(r *http.Request, v *validator.Validate, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", ErrValidation, err)
	}
	if v == nil {
		return nil
	}
	if err := v.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			parts := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				parts = append(parts, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrValidation, strings.Join(parts, "; "))
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
