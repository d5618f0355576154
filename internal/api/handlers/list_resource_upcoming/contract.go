package list_resource_upcoming

import (
	"context"

	"github.com/m04kA/SalonBookingService/internal/service/bookings/models"
)

type BookingService interface {
	ListResourceUpcoming(ctx context.Context, resourceID int64) (*models.PublicBookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
