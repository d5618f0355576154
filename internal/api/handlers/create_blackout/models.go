package create_blackout

import (
	"fmt"
	"time"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/internal/service/blackouts/models"
)

// CreateBlackoutRequest HTTP request model
type CreateBlackoutRequest struct {
	ResourceID    int64  `json:"resourceId" validate:"required,gt=0"`
	StartBoundary string `json:"startBoundary" validate:"required"` // "2026-03-10"
	EndBoundary   string `json:"endBoundary" validate:"required"`   // включительно
}

// ToServiceRequest парсит границы периода
func (r *CreateBlackoutRequest) ToServiceRequest() (*models.CreateBlackoutRequest, error) {
	start, err := time.Parse(domain.DateFormat, r.StartBoundary)
	if err != nil {
		return nil, fmt.Errorf("invalid startBoundary: %w", err)
	}
	end, err := time.Parse(domain.DateFormat, r.EndBoundary)
	if err != nil {
		return nil, fmt.Errorf("invalid endBoundary: %w", err)
	}

	return &models.CreateBlackoutRequest{
		ResourceID:    r.ResourceID,
		StartBoundary: start,
		EndBoundary:   end,
	}, nil
}
