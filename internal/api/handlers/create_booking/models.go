package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SalonBookingService/internal/domain"
	createBooking "github.com/m04kA/SalonBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SalonBookingService/pkg/types"
)

// DateTimeFormat формат локального времени салона в ответе
const DateTimeFormat = "2006-01-02T15:04"

var (
	errInvalidDay       = errors.New("invalid day")
	errInvalidStartTime = errors.New("invalid startTime")
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ResourceID int64   `json:"resourceId" validate:"required,gt=0"`
	Day        string  `json:"day" validate:"required"`       // "2026-03-10"
	StartTime  string  `json:"startTime" validate:"required"` // "09:00"
	Note       *string `json:"note"`                          // обязательна, может быть пустой строкой
	ServiceIDs []int64 `json:"serviceIds" validate:"required,min=1,dive,gt=0"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID           int64              `json:"id"`
	RequesterID  int64              `json:"requesterId"`
	ResourceID   int64              `json:"resourceId"`
	Note         string             `json:"note"`
	Day          string             `json:"day"`
	StartAt      string             `json:"startAt"`
	EndAt        string             `json:"endAt"`
	Status       string             `json:"status"`
	TotalMinutes int                `json:"totalMinutes"`
	TotalPrice   decimal.Decimal    `json:"totalPrice"`
	LineItems    []LineItemResponse `json:"lineItems"`
	CreatedAt    string             `json:"createdAt"`
}

type LineItemResponse struct {
	ServiceItemID int64           `json:"serviceItemId"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(requesterID int64) (*createBooking.Request, error) {
	day, err := time.Parse(domain.DateFormat, r.Day)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDay, err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidStartTime, err)
	}

	return &createBooking.Request{
		RequesterID:    requesterID,
		ResourceID:     r.ResourceID,
		Note:           r.Note,
		Day:            day,
		StartTime:      startTime,
		ServiceItemIDs: r.ServiceIDs,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	items := make([]LineItemResponse, len(resp.LineItems))
	for i, li := range resp.LineItems {
		items[i] = LineItemResponse{
			ServiceItemID: li.ServiceItemID,
			Quantity:      li.Quantity,
			UnitPrice:     li.UnitPrice,
		}
	}

	return &BookingResponse{
		ID:           resp.ID,
		RequesterID:  resp.RequesterID,
		ResourceID:   resp.ResourceID,
		Note:         resp.Note,
		Day:          resp.Day.Format(domain.DateFormat),
		StartAt:      resp.StartAt.Format(DateTimeFormat),
		EndAt:        resp.EndAt.Format(DateTimeFormat),
		Status:       resp.Status,
		TotalMinutes: resp.TotalMinutes,
		TotalPrice:   resp.TotalPrice,
		LineItems:    items,
		CreatedAt:    resp.CreatedAt.Format(time.RFC3339),
	}
}
