package blackouts

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SalonBookingService/internal/domain"
	blackoutRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/blackout"
	"github.com/m04kA/SalonBookingService/internal/service/blackouts/models"
)

// Service сервис периодов недоступности мастеров.
// Периоды не редактируются: только создание и удаление менеджером.
type Service struct {
	blackoutRepo BlackoutRepository
	dayLocker    DayLocker
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса периодов недоступности
func NewService(blackoutRepo BlackoutRepository, dayLocker DayLocker, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		blackoutRepo: blackoutRepo,
		dayLocker:    dayLocker,
		txManager:    txManager,
		logger:       logger,
	}
}

// List возвращает периоды недоступности, опционально по одному мастеру
func (s *Service) List(ctx context.Context, resourceID *int64) (*models.BlackoutListResponse, error) {
	if resourceID != nil {
		s.logger.Info("List: fetching blackouts, resource=%d", *resourceID)
	} else {
		s.logger.Info("List: fetching all blackouts")
	}

	if resourceID != nil && *resourceID <= 0 {
		return nil, fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	periods, err := s.blackoutRepo.List(ctx, resourceID)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d blackouts", len(periods))
	return models.FromDomainBlackoutList(periods), nil
}

// Create создает период недоступности. Доступно только менеджеру.
// Вставка идет под теми же блокировками дней, что и создание бронирования,
// поэтому параллельное бронирование на эти дни либо завершится раньше, либо увидит период.
func (s *Service) Create(ctx context.Context, principal domain.Principal, req *models.CreateBlackoutRequest) (*models.BlackoutResponse, error) {
	s.logger.Info("Create: creating blackout for resource=%d (%s - %s) by user=%d",
		req.ResourceID, req.StartBoundary.Format(domain.DateFormat), req.EndBoundary.Format(domain.DateFormat), principal.ID)

	if principal.Role != domain.RoleManager {
		s.logger.Warn("Create: user=%d with role=%s is not a manager", principal.ID, principal.Role)
		return nil, ErrAccessDenied
	}

	period := req.ToDomainBlackout()
	if err := period.Validate(); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var created *domain.BlackoutPeriod
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.dayLocker.LockResourceDays(txCtx, period.ResourceID, period.Days()); err != nil {
			return fmt.Errorf("lock resource days: %w", err)
		}

		var err error
		created, err = s.blackoutRepo.Create(txCtx, period)
		return err
	})
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created blackout id=%d", created.ID)
	return models.FromDomainBlackout(created), nil
}

// Delete удаляет период недоступности. Доступно только менеджеру.
func (s *Service) Delete(ctx context.Context, principal domain.Principal, id int64) error {
	s.logger.Info("Delete: deleting blackout id=%d by user=%d", id, principal.ID)

	if principal.Role != domain.RoleManager {
		s.logger.Warn("Delete: user=%d with role=%s is not a manager", principal.ID, principal.Role)
		return ErrAccessDenied
	}

	if err := s.blackoutRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, blackoutRepo.ErrBlackoutNotFound) {
			s.logger.Warn("Delete: blackout id=%d not found", id)
			return ErrBlackoutNotFound
		}
		s.logger.Error("Delete: repository error for blackout id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted blackout id=%d", id)
	return nil
}
