package list_service_items

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

var errInvalidIDs = errors.New("invalid ids")

// ServiceItemResponse услуга каталога для отображения клиенту
type ServiceItemResponse struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	DurationMinutes int             `json:"durationMinutes"`
	Price           decimal.Decimal `json:"price"`
}

// parseIDs разбирает "1,2,3". Повторы отбрасываются, порядок сохраняется.
func parseIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: ids is required", errInvalidIDs)
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	seen := make(map[int64]struct{}, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: %q", errInvalidIDs, part)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	if len(ids) > domain.MaxServiceItems {
		return nil, fmt.Errorf("%w: at most %d ids", errInvalidIDs, domain.MaxServiceItems)
	}
	return ids, nil
}

// toResponse возвращает найденные услуги в порядке запроса
func toResponse(ids []int64, items map[int64]domain.ServiceItem) []ServiceItemResponse {
	resp := make([]ServiceItemResponse, 0, len(items))
	for _, id := range ids {
		item, ok := items[id]
		if !ok {
			continue
		}
		resp = append(resp, ServiceItemResponse{
			ID:              item.ID,
			Name:            item.Name,
			DurationMinutes: item.DurationMinutes,
			Price:           item.Price,
		})
	}
	return resp
}
