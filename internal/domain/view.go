package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Horizon период выборки бронирований относительно сегодняшнего дня
type Horizon string

const (
	HorizonPast     Horizon = "past"
	HorizonUpcoming Horizon = "upcoming"
)

func ParseHorizon(s string) (Horizon, bool) {
	switch h := Horizon(s); h {
	case HorizonPast, HorizonUpcoming:
		return h, true
	}
	return "", false
}

// BookingView бронирование вместе с названиями услуг и итоговой ценой
type BookingView struct {
	Booking
	Services   []string
	TotalPrice decimal.Decimal
}

// BookingViewFilter фильтр выборки представлений бронирований.
// Должен быть задан хотя бы один из RequesterID/ResourceID/BookingID.
type BookingViewFilter struct {
	BookingID   *int64
	RequesterID *int64
	ResourceID  *int64
	Horizon     *Horizon
	Today       time.Time // сегодняшняя дата в часовом поясе салона
	ActiveOnly  bool
}
