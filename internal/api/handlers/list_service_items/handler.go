package list_service_items

import (
	"net/http"

	"github.com/m04kA/SalonBookingService/internal/api/handlers"
)

const (
	msgInvalidIDs = "некорректный список ID услуг"
)

type Handler struct {
	catalog ServiceCatalog
	logger  Logger
}

func NewHandler(catalog ServiceCatalog, logger Logger) *Handler {
	return &Handler{
		catalog: catalog,
		logger:  logger,
	}
}

// Handle GET /api/v1/service-items
// Query params: ids=1,2,3
// Публичный endpoint - без авторизации. Неизвестные ID в ответ не попадают.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDs(r.URL.Query().Get("ids"))
	if err != nil {
		h.logger.Warn("GET /service-items - Invalid ids: %v", err)
		handlers.RespondBadRequest(w, msgInvalidIDs)
		return
	}

	items, err := h.catalog.GetByIDs(r.Context(), ids)
	if err != nil {
		h.logger.Error("GET /service-items - Failed to get service items: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /service-items - Service items retrieved successfully: requested=%d, found=%d", len(ids), len(items))
	handlers.RespondJSON(w, http.StatusOK, toResponse(ids, items))
}
