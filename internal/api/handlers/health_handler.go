package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/St1cky1/taskboard/internal/api/respond"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store     Pinger
	storeName string
}

func NewHealthHandler(store Pinger, storeName string) *HealthHandler {
	return &HealthHandler{store: store, storeName: storeName}
}

type healthBody struct {
	Status string `json:"status"`
	Store  string `json:"store"`
	Error  string `json:"error,omitempty"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		respond.JSON(w, http.StatusServiceUnavailable, healthBody{Status: "unavailable", Store: h.storeName, Error: err.Error()})
		return
	}
	respond.JSON(w, http.StatusOK, healthBody{Status: "ok", Store: h.storeName})
}
