// Package respond writes the JSON bodies shared by handlers and middleware.
package respond

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/St1cky1/taskboard/internal/entity"
)

type ErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorBody{Message: msg})
}

// Error maps domain errors to status codes; anything unknown is a 500
// that carries the error text.
func Error(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrValidation):
		Message(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrUnauthenticated):
		Message(w, http.StatusUnauthorized, "Not authorized, no valid token")
	case errors.Is(err, entity.ErrInvalidCredentials):
		Message(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, entity.ErrForbidden):
		Message(w, http.StatusForbidden, "Access denied")
	case errors.Is(err, entity.ErrTaskNotFound):
		Message(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, entity.ErrUserNotFound):
		Message(w, http.StatusNotFound, "User not found")
	case errors.Is(err, entity.ErrEmailTaken):
		Message(w, http.StatusConflict, "User already exists")
	default:
		log.Printf("internal error: %v", err)
		JSON(w, http.StatusInternalServerError, ErrorBody{
			Message: "Internal server error",
			Error:   err.Error(),
		})
	}
}
