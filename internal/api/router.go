// Package api exposes a read-only HTTP status surface over the session
// registry: health, room listing, and per-room snapshots. Gameplay itself
// happens exclusively on the TCP protocol.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/jigsawd/internal/api/response"
	"github.com/mcoot/jigsawd/internal/middleware"
	"github.com/mcoot/jigsawd/internal/model"
	"github.com/mcoot/jigsawd/internal/services/registry"
)

// RouterConfig holds configuration for the status API router
type RouterConfig struct {
	Logger   *slog.Logger
	Registry registry.ControllerInterface
}

// NewRouter creates a new status API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	h := &roomsHandler{registry: cfg.Registry}

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/rooms", h.List).Methods(http.MethodGet)
	r.HandleFunc("/api/rooms/{id}", h.Get).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type roomsHandler struct {
	registry registry.ControllerInterface
}

// List returns summaries of every active room
func (h *roomsHandler) List(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.registry.ListRooms(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.JSON(w, http.StatusOK, response.RoomListFromSnapshots(snaps))
}

// Get returns the full snapshot of one room
func (h *roomsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.RoomID(mux.Vars(r)["id"])

	snap, err := h.registry.Snapshot(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			response.Error(w, http.StatusNotFound, err.Error())
			return
		}
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.JSON(w, http.StatusOK, snap)
}
