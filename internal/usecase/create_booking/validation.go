package create_booking

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.RequesterID <= 0 {
		return fmt.Errorf("%w: requesterID must be positive", ErrInvalidInput)
	}

	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	if req.Note == nil {
		return fmt.Errorf("%w: note is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(*req.Note) > domain.MaxNoteLength {
		return fmt.Errorf("%w: note must be at most %d characters", ErrInvalidInput, domain.MaxNoteLength)
	}

	// Проверяем, что дата не является нулевой
	if req.Day.IsZero() {
		return fmt.Errorf("%w: day is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if len(req.ServiceItemIDs) == 0 {
		return fmt.Errorf("%w: at least one service item is required", ErrInvalidInput)
	}
	if len(req.ServiceItemIDs) > domain.MaxServiceItems {
		return fmt.Errorf("%w: at most %d service items per booking", ErrInvalidInput, domain.MaxServiceItems)
	}
	for _, id := range req.ServiceItemIDs {
		if id <= 0 {
			return fmt.Errorf("%w: service item id must be positive, got %d", ErrInvalidInput, id)
		}
	}

	return nil
}

// validateNotInPast проверяет, что начало бронирования не в прошлом.
// now переводится в часовой пояс салона и сравнивается как локальное время.
func validateNotInPast(startAt, now time.Time, loc *time.Location) error {
	local := now.In(loc)
	wallNow := time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), local.Minute(), local.Second(), 0, time.UTC)

	if startAt.Before(wallNow) {
		return fmt.Errorf("%w: booking start %s is in the past", ErrInvalidInput, startAt.Format("2006-01-02 15:04"))
	}
	return nil
}
