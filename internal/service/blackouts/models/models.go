package models

import (
	"time"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

// CreateBlackoutRequest запрос на создание периода недоступности
type CreateBlackoutRequest struct {
	ResourceID    int64     `json:"resourceId"`
	StartBoundary time.Time `json:"-"`
	EndBoundary   time.Time `json:"-"`
}

// ToDomainBlackout конвертирует request в domain модель
func (r *CreateBlackoutRequest) ToDomainBlackout() *domain.BlackoutPeriod {
	return &domain.BlackoutPeriod{
		ResourceID:    r.ResourceID,
		StartBoundary: domain.TruncateToDay(r.StartBoundary),
		EndBoundary:   domain.TruncateToDay(r.EndBoundary),
	}
}

// BlackoutResponse период недоступности мастера
type BlackoutResponse struct {
	ID            int64     `json:"id"`
	ResourceID    int64     `json:"resourceId"`
	StartBoundary string    `json:"startBoundary"` // "2026-03-10"
	EndBoundary   string    `json:"endBoundary"`
	CreatedAt     time.Time `json:"createdAt"`
}

// BlackoutListResponse ответ со списком периодов недоступности
type BlackoutListResponse struct {
	Blackouts []BlackoutResponse `json:"blackouts"`
}

// FromDomainBlackout конвертирует domain модель в DTO
func FromDomainBlackout(p *domain.BlackoutPeriod) *BlackoutResponse {
	if p == nil {
		return nil
	}
	return &BlackoutResponse{
		ID:            p.ID,
		ResourceID:    p.ResourceID,
		StartBoundary: p.StartBoundary.Format(domain.DateFormat),
		EndBoundary:   p.EndBoundary.Format(domain.DateFormat),
		CreatedAt:     p.CreatedAt,
	}
}

// FromDomainBlackoutList конвертирует список domain моделей в DTO
func FromDomainBlackoutList(periods []*domain.BlackoutPeriod) *BlackoutListResponse {
	resp := &BlackoutListResponse{
		Blackouts: make([]BlackoutResponse, 0, len(periods)),
	}
	for _, p := range periods {
		if r := FromDomainBlackout(p); r != nil {
			resp.Blackouts = append(resp.Blackouts, *r)
		}
	}
	return resp
}
