package domain

import "time"

// BlackoutPeriod дни, в которые мастер недоступен (отпуск, больничный).
// Границы включительные, гранулярность - целый день.
type BlackoutPeriod struct {
	ID            int64
	ResourceID    int64
	StartBoundary time.Time
	EndBoundary   time.Time
	CreatedAt     time.Time
}

// Days возвращает все дни периода включительно
func (p *BlackoutPeriod) Days() []time.Time {
	return DaysBetween(TruncateToDay(p.StartBoundary), TruncateToDay(p.EndBoundary).AddDate(0, 0, 1))
}

func (p *BlackoutPeriod) Validate() error {
	if p.ResourceID <= 0 {
		return ErrInvalidResourceID
	}
	if TruncateToDay(p.StartBoundary).After(TruncateToDay(p.EndBoundary)) {
		return ErrInvalidBlackoutRange
	}
	return nil
}
