package create_booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SalonBookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	RequesterID    int64            // ID клиента
	ResourceID     int64            // ID мастера
	Note           *string          // Комментарий к записи (обязателен, может быть пустым)
	Day            time.Time        // Дата бронирования (без времени)
	StartTime      types.TimeString // Время начала (например, "10:00")
	ServiceItemIDs []int64          // Выбранные услуги, повторы допустимы
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID           int64
	RequesterID  int64
	ResourceID   int64
	Note         string
	Day          time.Time
	StartAt      time.Time
	EndAt        time.Time
	Status       string
	TotalMinutes int
	TotalPrice   decimal.Decimal
	LineItems    []LineItem
	CreatedAt    time.Time
}

// LineItem позиция созданного бронирования
type LineItem struct {
	ServiceItemID int64
	Quantity      int
	UnitPrice     decimal.Decimal
}
