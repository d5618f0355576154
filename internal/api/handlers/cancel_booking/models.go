package cancel_booking

import (
	"github.com/m04kA/SalonBookingService/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	CancelReason *string `json:"cancelReason"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest() *models.CancelBookingRequest {
	reason := ""
	if r.CancelReason != nil {
		reason = *r.CancelReason
	}

	return &models.CancelBookingRequest{
		CancelReason: reason,
	}
}
