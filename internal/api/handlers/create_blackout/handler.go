package create_blackout

import (
	"errors"
	"net/http"

	"github.com/m04kA/SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SalonBookingService/internal/service/blackouts"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingPrincipal   = "пользователь не авторизован"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidData        = "некорректный период недоступности"
	msgForbidden          = "доступ запрещен"
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

// Handle POST /api/v1/blackouts
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		h.logger.Warn("POST /blackouts - Missing principal")
		handlers.RespondUnauthorized(w, msgMissingPrincipal)
		return
	}

	var req CreateBlackoutRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /blackouts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("POST /blackouts - Validation failed: %v", err)
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("POST /blackouts - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.Create(r.Context(), principal, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, blackouts.ErrAccessDenied):
			h.logger.Warn("POST /blackouts - Access denied: user_id=%d", principal.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, blackouts.ErrInvalidInput):
			h.logger.Warn("POST /blackouts - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("POST /blackouts - Failed to create blackout: resource_id=%d, error=%v", req.ResourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /blackouts - Blackout created successfully: blackout_id=%d, resource_id=%d",
		result.ID, result.ResourceID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
