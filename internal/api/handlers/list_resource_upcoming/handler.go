package list_resource_upcoming

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SalonBookingService/internal/api/handlers"
)

const (
	msgInvalidResourceID = "некорректный ID мастера"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/bookings/upcoming
// Занятое время мастера без данных клиентов
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	resourceID, err := strconv.ParseInt(vars["resourceId"], 10, 64)
	if err != nil || resourceID <= 0 {
		h.logger.Warn("GET /resources/{id}/bookings/upcoming - Invalid resource ID: %q", vars["resourceId"])
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	result, err := h.service.ListResourceUpcoming(r.Context(), resourceID)
	if err != nil {
		h.logger.Error("GET /resources/{id}/bookings/upcoming - Failed to get bookings: resource_id=%d, error=%v",
			resourceID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /resources/{id}/bookings/upcoming - Bookings retrieved successfully: resource_id=%d, count=%d",
		resourceID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
