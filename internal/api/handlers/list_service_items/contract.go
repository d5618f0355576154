package list_service_items

import (
	"context"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

// ServiceCatalog каталог услуг (кэш Redis или БД)
type ServiceCatalog interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.ServiceItem, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
