package list_blackouts

import (
	"context"

	"github.com/m04kA/SalonBookingService/internal/service/blackouts/models"
)

type BlackoutService interface {
	List(ctx context.Context, resourceID *int64) (*models.BlackoutListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
