package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/St1cky1/taskboard/internal/entity"
)

// ErrUnauthenticated means the server rejected the session token, or there
// was none. The session has been cleared by the time it is returned.
var ErrUnauthenticated = errors.New("not signed in or session expired")

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return e.Message
}

// Unwrap lets callers test API errors against the entity sentinels.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return entity.ErrValidation
	case http.StatusUnauthorized:
		return entity.ErrInvalidCredentials
	case http.StatusForbidden:
		return entity.ErrForbidden
	case http.StatusNotFound:
		return entity.ErrTaskNotFound
	case http.StatusConflict:
		return entity.ErrEmailTaken
	}
	return nil
}
