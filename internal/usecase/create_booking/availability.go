package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

// AvailabilityChecker проверяет, свободен ли мастер в интервале [start, end).
// Вызывается внутри транзакции создания, после взятия блокировок на дни.
type AvailabilityChecker struct {
	bookingRepo  BookingRepository
	blackoutRepo BlackoutRepository
}

func NewAvailabilityChecker(bookingRepo BookingRepository, blackoutRepo BlackoutRepository) *AvailabilityChecker {
	return &AvailabilityChecker{
		bookingRepo:  bookingRepo,
		blackoutRepo: blackoutRepo,
	}
}

// IsAvailable возвращает false, если любой затронутый день попадает в период недоступности
// или интервал пересекается с активным бронированием мастера
func (c *AvailabilityChecker) IsAvailable(ctx context.Context, resourceID int64, start, end time.Time) (bool, error) {
	days := domain.DaysBetween(start, end)

	blocked, err := c.blackoutRepo.ExistsCovering(ctx, resourceID, days[0], days[len(days)-1])
	if err != nil {
		return false, err
	}
	if blocked {
		return false, nil
	}

	overlap, err := c.bookingRepo.HasOverlap(ctx, resourceID, start, end)
	if err != nil {
		return false, err
	}

	return !overlap, nil
}
