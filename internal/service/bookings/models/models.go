package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

// DateTimeFormat формат локального времени салона в ответах
const DateTimeFormat = "2006-01-02T15:04"

// Request модели

// CancelBookingRequest запрос на отмену бронирования клиентом
type CancelBookingRequest struct {
	CancelReason string `json:"cancelReason"`
}

// ChangeStatusRequest запрос на смену статуса мастером
type ChangeStatusRequest struct {
	Status       string  `json:"status"`
	CancelReason *string `json:"cancelReason,omitempty"` // обязательна для статуса cancelled
}

// Response модели

// BookingResponse бронирование с услугами и итоговой ценой
type BookingResponse struct {
	ID          int64           `json:"id"`
	RequesterID int64           `json:"requesterId"`
	ResourceID  int64           `json:"resourceId"`
	Note        string          `json:"note"`
	Day         string          `json:"day"`     // "2026-03-10"
	StartAt     string          `json:"startAt"` // "2026-03-10T09:00"
	EndAt       string          `json:"endAt"`   // может быть на следующий день
	Status      string          `json:"status"`
	Services    []string        `json:"services"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`

	CancelReason *string `json:"cancelReason,omitempty"`
	CancelledAt  *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// PublicBookingResponse занятое время мастера без данных клиента
type PublicBookingResponse struct {
	ID         int64           `json:"id"`
	ResourceID int64           `json:"resourceId"`
	Day        string          `json:"day"`
	StartAt    string          `json:"startAt"`
	EndAt      string          `json:"endAt"`
	Status     string          `json:"status"`
	Services   []string        `json:"services"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// PublicBookingListResponse публичный календарь мастера
type PublicBookingListResponse struct {
	Bookings []PublicBookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBookingView конвертирует domain модель в DTO
func FromDomainBookingView(v *domain.BookingView) *BookingResponse {
	if v == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:           v.ID,
		RequesterID:  v.RequesterID,
		ResourceID:   v.ResourceID,
		Note:         v.Note,
		Day:          v.Day.Format(domain.DateFormat),
		StartAt:      v.StartAt.Format(DateTimeFormat),
		EndAt:        v.EndAt.Format(DateTimeFormat),
		Status:       string(v.Status),
		Services:     v.Services,
		TotalPrice:   v.TotalPrice,
		CancelReason: v.CancelReason,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
	if resp.Services == nil {
		resp.Services = []string{}
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if v.CancelledAt != nil {
		cancelledStr := v.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingViewList конвертирует список domain моделей в DTO
func FromDomainBookingViewList(views []*domain.BookingView) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(views)),
	}

	for _, v := range views {
		if bookingResp := FromDomainBookingView(v); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToPublicBookingList отбрасывает данные клиента, заметку и сведения об отмене
func ToPublicBookingList(views []*domain.BookingView) *PublicBookingListResponse {
	resp := &PublicBookingListResponse{
		Bookings: make([]PublicBookingResponse, 0, len(views)),
	}

	for _, v := range views {
		services := v.Services
		if services == nil {
			services = []string{}
		}
		resp.Bookings = append(resp.Bookings, PublicBookingResponse{
			ID:         v.ID,
			ResourceID: v.ResourceID,
			Day:        v.Day.Format(domain.DateFormat),
			StartAt:    v.StartAt.Format(DateTimeFormat),
			EndAt:      v.EndAt.Format(DateTimeFormat),
			Status:     string(v.Status),
			Services:   services,
			TotalPrice: v.TotalPrice,
		})
	}

	return resp
}
