package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Cancel(ctx context.Context, id, requesterID int64, reason string) error
	UpdateStatus(ctx context.Context, id, resourceID int64, status domain.BookingStatus, reason *string) error
	ListViews(ctx context.Context, filter domain.BookingViewFilter) ([]*domain.BookingView, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
