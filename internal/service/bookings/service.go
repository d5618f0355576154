package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SalonBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SalonBookingService/internal/service/bookings/models"
)

// Service сервис жизненного цикла и выборок бронирований
type Service struct {
	bookingRepo  BookingRepository
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований.
// location - часовой пояс салона, в нем определяется "сегодня".
func NewService(
	bookingRepo BookingRepository,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Cancel отменяет бронирование клиентом.
// Применяется, только если бронирование принадлежит клиенту и не в терминальном статусе,
// иначе ErrNoChangesApplied. Повторная отмена тоже возвращает ErrNoChangesApplied.
func (s *Service) Cancel(ctx context.Context, principal domain.Principal, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by requester=%d", bookingID, principal.ID)

	reason, err := validateReason(&req.CancelReason)
	if err != nil {
		s.logger.Warn("Cancel: invalid reason for booking id=%d: %v", bookingID, err)
		return err
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, principal.ID, reason); err != nil {
		if errors.Is(err, bookingRepo.ErrNoRowsAffected) {
			s.logger.Warn("Cancel: booking id=%d not cancelled for requester=%d", bookingID, principal.ID)
			return ErrNoChangesApplied
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return nil
}

// ChangeStatus меняет статус бронирования мастером.
// requested и неизвестные статусы отклоняются. Для cancelled обязательна причина.
func (s *Service) ChangeStatus(ctx context.Context, principal domain.Principal, bookingID int64, req *models.ChangeStatusRequest) error {
	s.logger.Info("ChangeStatus: updating booking id=%d to status=%s by resource=%d",
		bookingID, req.Status, principal.ID)

	newStatus, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("ChangeStatus: invalid status=%q for booking id=%d", req.Status, bookingID)
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var reason *string
	if newStatus == domain.StatusCancelled {
		r, err := validateReason(req.CancelReason)
		if err != nil {
			s.logger.Warn("ChangeStatus: invalid reason for booking id=%d: %v", bookingID, err)
			return err
		}
		reason = &r
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, principal.ID, newStatus, reason); err != nil {
		if errors.Is(err, bookingRepo.ErrNoRowsAffected) {
			s.logger.Warn("ChangeStatus: booking id=%d not updated for resource=%d", bookingID, principal.ID)
			return ErrNoChangesApplied
		}
		s.logger.Error("ChangeStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: ChangeStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ChangeStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)
	return nil
}

// ListMyBookings возвращает прошлые или предстоящие бронирования пользователя.
// Мастер видит бронирования к себе, клиент - свои. Другие роли получают ErrAccessDenied.
func (s *Service) ListMyBookings(ctx context.Context, principal domain.Principal, horizon string) (*models.BookingListResponse, error) {
	s.logger.Info("ListMyBookings: fetching %s bookings for user=%d role=%s", horizon, principal.ID, principal.Role)

	h, ok := domain.ParseHorizon(horizon)
	if !ok {
		s.logger.Warn("ListMyBookings: invalid horizon=%q", horizon)
		return nil, fmt.Errorf("%w: horizon must be past or upcoming", ErrInvalidInput)
	}

	filter := domain.BookingViewFilter{
		Horizon: &h,
		Today:   s.today(),
	}
	switch principal.Role {
	case domain.RoleDesigner:
		filter.ResourceID = &principal.ID
	case domain.RoleClient:
		filter.RequesterID = &principal.ID
	default:
		s.logger.Warn("ListMyBookings: role=%s is not allowed", principal.Role)
		return nil, ErrAccessDenied
	}

	views, err := s.bookingRepo.ListViews(ctx, filter)
	if err != nil {
		s.logger.Error("ListMyBookings: repository error for user=%d: %v", principal.ID, err)
		return nil, fmt.Errorf("%w: ListMyBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListMyBookings: successfully fetched %d bookings for user=%d", len(views), principal.ID)
	return models.FromDomainBookingViewList(views), nil
}

// ListResourceUpcoming возвращает предстоящие активные бронирования мастера без данных клиентов
func (s *Service) ListResourceUpcoming(ctx context.Context, resourceID int64) (*models.PublicBookingListResponse, error) {
	s.logger.Info("ListResourceUpcoming: fetching upcoming bookings for resource=%d", resourceID)

	if resourceID <= 0 {
		return nil, fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	upcoming := domain.HorizonUpcoming
	views, err := s.bookingRepo.ListViews(ctx, domain.BookingViewFilter{
		ResourceID: &resourceID,
		Horizon:    &upcoming,
		Today:      s.today(),
		ActiveOnly: true,
	})
	if err != nil {
		s.logger.Error("ListResourceUpcoming: repository error for resource=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: ListResourceUpcoming - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListResourceUpcoming: successfully fetched %d bookings for resource=%d", len(views), resourceID)
	return models.ToPublicBookingList(views), nil
}

// GetByID получает бронирование по ID.
// Доступно клиенту, создавшему бронирование, и мастеру, к которому оно записано.
func (s *Service) GetByID(ctx context.Context, principal domain.Principal, bookingID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", bookingID, principal.ID)

	views, err := s.bookingRepo.ListViews(ctx, domain.BookingViewFilter{BookingID: &bookingID})
	if err != nil {
		s.logger.Error("GetByID: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}
	if len(views) == 0 {
		s.logger.Warn("GetByID: booking id=%d not found", bookingID)
		return nil, ErrBookingNotFound
	}

	view := views[0]
	if !canView(principal, view) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", principal.ID, bookingID)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", bookingID)
	return models.FromDomainBookingView(view), nil
}

// today сегодняшняя дата в часовом поясе салона
func (s *Service) today() time.Time {
	now := s.timeProvider.Now().In(s.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func canView(principal domain.Principal, view *domain.BookingView) bool {
	switch principal.Role {
	case domain.RoleClient:
		return view.RequesterID == principal.ID
	case domain.RoleDesigner:
		return view.ResourceID == principal.ID
	}
	return false
}

func validateReason(reason *string) (string, error) {
	if reason == nil || strings.TrimSpace(*reason) == "" {
		return "", fmt.Errorf("%w: cancel reason is required", ErrInvalidInput)
	}
	r := strings.TrimSpace(*reason)
	if utf8.RuneCountInString(r) > domain.MaxCancelReasonLength {
		return "", fmt.Errorf("%w: cancel reason must be at most %d characters", ErrInvalidInput, domain.MaxCancelReasonLength)
	}
	return r, nil
}
