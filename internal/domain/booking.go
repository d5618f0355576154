package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusRequested BookingStatus = "requested"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCheckedIn BookingStatus = "checked_in"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

// ParseBookingStatus разбирает статус, который может выставить мастер.
// Неизвестные значения и requested (только начальный статус) отклоняются.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch status := BookingStatus(s); status {
	case StatusConfirmed, StatusCheckedIn, StatusCompleted, StatusCancelled, StatusNoShow:
		return status, nil
	case StatusRequested:
		return "", ErrStatusNotAssignable
	default:
		return "", ErrUnknownStatus
	}
}

// Booking represents an appointment of a requester with a resource (designer)
type Booking struct {
	ID          int64
	RequesterID int64
	ResourceID  int64
	Note        string
	Day         time.Time // дата начала, 00:00
	StartAt     time.Time // полная дата и время начала
	EndAt       time.Time // полная дата и время окончания, может приходиться на следующий день
	Status      BookingStatus

	CancelReason *string
	CancelledAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	LineItems []LineItem
}

// Days возвращает все календарные дни, которые затрагивает бронирование
func (b *Booking) Days() []time.Time {
	return DaysBetween(b.StartAt, b.EndAt)
}

// TotalPrice сумма по всем позициям бронирования
func (b *Booking) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, li := range b.LineItems {
		total = total.Add(li.Subtotal())
	}
	return total
}

// LineItem позиция бронирования. Цена фиксируется на момент создания.
type LineItem struct {
	ID            int64
	BookingID     int64
	ServiceItemID int64
	Quantity      int
	UnitPrice     decimal.Decimal
}

// Subtotal returns UnitPrice * Quantity
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// DaysBetween возвращает дни полуинтервала [start, end) по возрастанию
func DaysBetween(start, end time.Time) []time.Time {
	first := TruncateToDay(start)
	last := TruncateToDay(end.Add(-time.Nanosecond))
	if last.Before(first) {
		last = first
	}

	var days []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// TruncateToDay отбрасывает время, сохраняя location
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
