package list_blackouts

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SalonBookingService/internal/service/blackouts"
)

const (
	msgInvalidResourceID = "некорректный ID мастера"
)

type Handler struct {
	service BlackoutService
	logger  Logger
}

func NewHandler(service BlackoutService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/blackouts
// Query params: resourceId (опционально)
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var resourceID *int64
	if raw := r.URL.Query().Get("resourceId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /blackouts - Invalid resource ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidResourceID)
			return
		}
		resourceID = &id
	}

	result, err := h.service.List(r.Context(), resourceID)
	if err != nil {
		if errors.Is(err, blackouts.ErrInvalidInput) {
			h.logger.Warn("GET /blackouts - Invalid parameters: %v", err)
			handlers.RespondBadRequest(w, msgInvalidResourceID)
			return
		}
		h.logger.Error("GET /blackouts - Failed to get blackouts: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /blackouts - Blackouts retrieved successfully: count=%d", len(result.Blackouts))
	handlers.RespondJSON(w, http.StatusOK, result.Blackouts)
}
