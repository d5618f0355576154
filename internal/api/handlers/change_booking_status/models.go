package change_booking_status

import (
	"github.com/m04kA/SalonBookingService/internal/service/bookings/models"
)

// ChangeStatusRequest HTTP request model
type ChangeStatusRequest struct {
	Status       string  `json:"status" validate:"required"`
	CancelReason *string `json:"cancelReason,omitempty"`
}

func (r *ChangeStatusRequest) ToServiceRequest() *models.ChangeStatusRequest {
	return &models.ChangeStatusRequest{
		Status:       r.Status,
		CancelReason: r.CancelReason,
	}
}
