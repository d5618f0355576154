package delete_blackout

import (
	"context"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

type BlackoutService interface {
	Delete(ctx context.Context, principal domain.Principal, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
