package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SalonBookingService/internal/api/middleware"
	createBooking "github.com/m04kA/SalonBookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingPrincipal   = "пользователь не авторизован"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgNoteRequired       = "поле note обязательно"
	msgInvalidBooking     = "некорректные данные бронирования"
	msgUnknownServiceItem = "одна или несколько услуг не найдены"
	msgTimeConflict       = "выбранное время недоступно"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing principal")
		handlers.RespondUnauthorized(w, msgMissingPrincipal)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("POST /bookings - Validation failed: user_id=%d, error=%v", principal.ID, err)
		handlers.RespondBadRequest(w, handlers.ValidationMessage(err))
		return
	}
	if req.Note == nil {
		h.logger.Warn("POST /bookings - Missing note: user_id=%d", principal.ID)
		handlers.RespondBadRequest(w, msgNoteRequired)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(principal.ID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidStartTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrTimeConflict):
			h.logger.Warn("POST /bookings - Time conflict: user_id=%d, resource_id=%d", principal.ID, req.ResourceID)
			handlers.RespondConflict(w, handlers.CodeTimeConflict, msgTimeConflict)

		case errors.Is(err, createBooking.ErrUnknownServiceItem):
			h.logger.Warn("POST /bookings - Unknown service item: user_id=%d, service_ids=%v", principal.ID, req.ServiceIDs)
			handlers.RespondError(w, http.StatusBadRequest, handlers.CodeUnknownServiceItem, msgUnknownServiceItem)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid booking: user_id=%d, error=%v", principal.ID, err)
			handlers.RespondBadRequest(w, msgInvalidBooking)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, resource_id=%d, error=%v",
				principal.ID, req.ResourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, resource_id=%d",
		result.ID, principal.ID, req.ResourceID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
