// Package response writes the {success, payload, message} envelope every
// HTTP endpoint answers with.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dtroode/storeauth/internal/api/apierror"
	"github.com/dtroode/storeauth/internal/model"
)

// Envelope wraps every response body.
type Envelope struct {
	Success bool   `json:"success"`
	Payload any    `json:"payload,omitempty"`
	Message string `json:"message,omitempty"`
}

// JSON writes v with status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // connection may already be gone
		json.NewEncoder(w).Encode(v)
	}
}

// OK writes a successful envelope around payload.
func OK(w http.ResponseWriter, payload any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Payload: payload})
}

// Error writes a failed envelope for err. Validation errors keep their
// detail, everything else uses the generic message for its status.
func Error(w http.ResponseWriter, err error) {
	s := apierror.Resolve(err)
	msg := s.Message
	if errors.Is(err, model.ErrInvalidRequest) {
		msg = err.Error()
	}
	JSON(w, s.HTTP, Envelope{Success: false, Message: msg})
}
