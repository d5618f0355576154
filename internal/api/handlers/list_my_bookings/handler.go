package list_my_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/internal/service/bookings"
)

const (
	msgMissingPrincipal = "пользователь не авторизован"
	msgInvalidHorizon   = "параметр horizon должен быть past или upcoming"
	msgForbidden        = "доступ запрещен"
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

// Handle GET /api/v1/bookings?horizon=past|upcoming
// По умолчанию upcoming
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings - Missing principal")
		handlers.RespondUnauthorized(w, msgMissingPrincipal)
		return
	}

	horizon := r.URL.Query().Get("horizon")
	if horizon == "" {
		horizon = string(domain.HorizonUpcoming)
	}

	result, err := h.service.ListMyBookings(r.Context(), principal, horizon)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /bookings - Invalid horizon: %q", horizon)
			handlers.RespondBadRequest(w, msgInvalidHorizon)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /bookings - Access denied: user_id=%d, role=%s", principal.ID, principal.Role)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /bookings - Failed to get bookings: user_id=%d, error=%v", principal.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings - Bookings retrieved successfully: user_id=%d, horizon=%s, count=%d",
		principal.ID, horizon, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
