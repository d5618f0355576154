package types

import (
	"errors"
	"fmt"
	"time"
)

// timeLayout формат времени суток (HH:MM)
const timeLayout = "15:04"

var (
	// ErrInvalidTimeString возвращается при некорректном формате времени
	ErrInvalidTimeString = errors.New("invalid time string format")
)

// TimeString время суток в формате "HH:MM" без привязки к дате
type TimeString struct {
	hour   int
	minute int
	valid  bool
}

// NewTimeString создает TimeString из time.Time (берется только время суток)
func NewTimeString(t time.Time) TimeString {
	return TimeString{hour: t.Hour(), minute: t.Minute(), valid: true}
}

// NewTimeStringFromString парсит строку "HH:MM"
func NewTimeStringFromString(s string) (TimeString, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return NewTimeString(t), nil
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return !t.valid
}

// Validate проверяет корректность значения
func (t TimeString) Validate() error {
	if !t.valid {
		return ErrInvalidTimeString
	}
	if t.hour < 0 || t.hour > 23 || t.minute < 0 || t.minute > 59 {
		return fmt.Errorf("%w: %02d:%02d", ErrInvalidTimeString, t.hour, t.minute)
	}
	return nil
}

// On возвращает момент времени в указанный день.
// Дата берется из day, часовой пояс тоже из day.
func (t TimeString) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.hour, t.minute, 0, 0, day.Location())
}

// String возвращает строку "HH:MM"
func (t TimeString) String() string {
	if !t.valid {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", t.hour, t.minute)
}
