package blackouts

import (
	"context"
	"time"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

// BlackoutRepository интерфейс репозитория периодов недоступности
type BlackoutRepository interface {
	Create(ctx context.Context, period *domain.BlackoutPeriod) (*domain.BlackoutPeriod, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, resourceID *int64) ([]*domain.BlackoutPeriod, error)
}

// DayLocker блокировки дней мастера, общие с созданием бронирований (storage/booking.Repository)
type DayLocker interface {
	LockResourceDays(ctx context.Context, resourceID int64, days []time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
