package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	LockResourceDays(ctx context.Context, resourceID int64, days []time.Time) error
	HasOverlap(ctx context.Context, resourceID int64, start, end time.Time) (bool, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	CreateLineItems(ctx context.Context, bookingID int64, items []domain.LineItem) error
}

// BlackoutRepository интерфейс репозитория периодов недоступности
type BlackoutRepository interface {
	ExistsCovering(ctx context.Context, resourceID int64, from, to time.Time) (bool, error)
}

// ServiceCatalog каталог услуг. Читается внутри транзакции создания,
// поэтому реализация должна брать executor из контекста (storage/catalog.Repository), а не кэш.
type ServiceCatalog interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.ServiceItem, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчик исходов создания бронирования
type Metrics interface {
	RecordBookingOutcome(outcome string)
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
