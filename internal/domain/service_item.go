package domain

import "github.com/shopspring/decimal"

// ServiceItem услуга из каталога салона (стрижка, окрашивание и т.д.)
type ServiceItem struct {
	ID              int64
	Name            string
	DurationMinutes int
	Price           decimal.Decimal
}
