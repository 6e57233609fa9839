package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/St1cky1/taskboard/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", entity.NewValidationError("Please provide title and description"), http.StatusBadRequest, "Please provide title and description"},
		{"unauthenticated", entity.ErrUnauthenticated, http.StatusUnauthorized, "Not authorized, no valid token"},
		{"credentials", entity.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
		{"forbidden", entity.ErrForbidden, http.StatusForbidden, "Access denied"},
		{"not found wrapped", fmt.Errorf("get task: %w", entity.ErrTaskNotFound), http.StatusNotFound, "Task not found"},
		{"email taken", entity.ErrEmailTaken, http.StatusConflict, "User already exists"},
		{"unknown", errors.New("pool closed"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.msg, body.Message)
			if tt.status == http.StatusInternalServerError {
				assert.Equal(t, "pool closed", body.Error)
			} else {
				assert.Empty(t, body.Error)
			}
		})
	}
}
