package list_my_bookings

import (
	"context"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/internal/service/bookings/models"
)

type BookingService interface {
	ListMyBookings(ctx context.Context, principal domain.Principal, horizon string) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
