package change_booking_status

import (
	"context"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/internal/service/bookings/models"
)

type BookingService interface {
	ChangeStatus(ctx context.Context, principal domain.Principal, bookingID int64, req *models.ChangeStatusRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
