package delete_blackout

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SalonBookingService/internal/service/blackouts"
)

const (
	msgInvalidBlackoutID = "некорректный ID периода недоступности"
	msgMissingPrincipal  = "пользователь не авторизован"
	msgNotFound          = "период недоступности не найден"
	msgForbidden         = "доступ запрещен"
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

// Handle DELETE /api/v1/blackouts/{blackoutId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	blackoutID, err := strconv.ParseInt(vars["blackoutId"], 10, 64)
	if err != nil || blackoutID <= 0 {
		h.logger.Warn("DELETE /blackouts/{id} - Invalid blackout ID: %q", vars["blackoutId"])
		handlers.RespondBadRequest(w, msgInvalidBlackoutID)
		return
	}

	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		h.logger.Warn("DELETE /blackouts/{id} - Missing principal")
		handlers.RespondUnauthorized(w, msgMissingPrincipal)
		return
	}

	if err := h.service.Delete(r.Context(), principal, blackoutID); err != nil {
		switch {
		case errors.Is(err, blackouts.ErrBlackoutNotFound):
			h.logger.Warn("DELETE /blackouts/{id} - Blackout not found: blackout_id=%d", blackoutID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, blackouts.ErrAccessDenied):
			h.logger.Warn("DELETE /blackouts/{id} - Access denied: user_id=%d", principal.ID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /blackouts/{id} - Failed to delete blackout: blackout_id=%d, error=%v",
				blackoutID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /blackouts/{id} - Blackout deleted successfully: blackout_id=%d", blackoutID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
