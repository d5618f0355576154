package create_blackout

import (
	"context"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/internal/service/blackouts/models"
)

type BlackoutService interface {
	Create(ctx context.Context, principal domain.Principal, req *models.CreateBlackoutRequest) (*models.BlackoutResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
