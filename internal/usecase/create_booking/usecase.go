package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SalonBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SalonBookingService/pkg/metrics"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	calculator   *DurationCalculator
	availability *AvailabilityChecker
	txManager    TransactionManager
	metrics      Metrics
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// location - часовой пояс салона, в нем определяется текущее локальное время.
func NewUseCase(
	bookingRepo BookingRepository,
	blackoutRepo BlackoutRepository,
	catalog ServiceCatalog,
	txManager TransactionManager,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		calculator:   NewDurationCalculator(catalog),
		availability: NewAvailabilityChecker(bookingRepo, blackoutRepo),
		txManager:    txManager,
		metrics:      metrics,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Чтение каталога, проверка доступности и вставка выполняются в одной транзакции
// под advisory lock на каждый затронутый день мастера.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: requester=%d, resource=%d, day=%s, time=%s, services=%v",
		req.RequesterID, req.ResourceID, req.Day.Format(domain.DateFormat), req.StartTime, req.ServiceItemIDs)

	result, err := uc.execute(ctx, req)
	uc.metrics.RecordBookingOutcome(outcome(err))
	return result, err
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	day := time.Date(req.Day.Year(), req.Day.Month(), req.Day.Day(), 0, 0, 0, 0, time.UTC)
	startAt := req.StartTime.On(day)

	// 2. Начало не может быть в прошлом
	if err := validateNotInPast(startAt, uc.timeProvider.Now(), uc.location); err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	booking := &domain.Booking{
		RequesterID: req.RequesterID,
		ResourceID:  req.ResourceID,
		Note:        *req.Note,
		Day:         day,
		StartAt:     startAt,
		Status:      domain.StatusRequested,
	}

	// 3. Расчет, блокировка, проверка доступности и вставка в одной транзакции.
	// Каталог читается внутри транзакции, поэтому длительность и цены актуальны на момент вставки.
	var calc *Calculation
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		calc, err = uc.calculator.Compute(txCtx, req.ServiceItemIDs)
		if err != nil {
			if errors.Is(err, ErrUnknownServiceItem) {
				uc.logger.Warn("CreateBooking: %v", err)
			} else {
				uc.logger.Error("CreateBooking: failed to compute duration: %v", err)
			}
			return err
		}
		booking.EndAt = calc.EndAt(startAt)
		endAt := booking.EndAt

		if err := uc.bookingRepo.LockResourceDays(txCtx, req.ResourceID, booking.Days()); err != nil {
			uc.logger.Error("CreateBooking: failed to lock resource days: %v", err)
			return fmt.Errorf("%w: failed to lock resource days: %v", ErrInternal, err)
		}

		available, err := uc.availability.IsAvailable(txCtx, req.ResourceID, startAt, endAt)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check availability: %v", err)
			return fmt.Errorf("%w: failed to check availability: %v", ErrInternal, err)
		}
		if !available {
			uc.logger.Warn("CreateBooking: resource=%d is not available %s - %s",
				req.ResourceID, startAt.Format("2006-01-02 15:04"), endAt.Format("2006-01-02 15:04"))
			return ErrTimeConflict
		}

		if _, err := uc.bookingRepo.Create(txCtx, booking); err != nil {
			if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
				uc.logger.Warn("CreateBooking: exclusion constraint rejected booking: %v", err)
				return ErrTimeConflict
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		if err := uc.bookingRepo.CreateLineItems(txCtx, booking.ID, calc.LineItems); err != nil {
			if errors.Is(err, bookingRepo.ErrUnknownServiceItem) {
				uc.logger.Warn("CreateBooking: service item disappeared from catalog: %v", err)
				return fmt.Errorf("%w: %v", ErrUnknownServiceItem, err)
			}
			uc.logger.Error("CreateBooking: failed to create line items: %v", err)
			return fmt.Errorf("%w: failed to create line items: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if !isKnown(err) {
			uc.logger.Error("CreateBooking: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d (%s - %s)",
		booking.ID, startAt.Format("2006-01-02 15:04"), booking.EndAt.Format("2006-01-02 15:04"))

	return toResponse(booking, calc), nil
}

func toResponse(b *domain.Booking, calc *Calculation) *Response {
	items := make([]LineItem, len(calc.LineItems))
	for i, li := range calc.LineItems {
		items[i] = LineItem{
			ServiceItemID: li.ServiceItemID,
			Quantity:      li.Quantity,
			UnitPrice:     li.UnitPrice,
		}
	}
	b.LineItems = calc.LineItems

	return &Response{
		ID:           b.ID,
		RequesterID:  b.RequesterID,
		ResourceID:   b.ResourceID,
		Note:         b.Note,
		Day:          b.Day,
		StartAt:      b.StartAt,
		EndAt:        b.EndAt,
		Status:       string(b.Status),
		TotalMinutes: calc.TotalMinutes,
		TotalPrice:   b.TotalPrice(),
		LineItems:    items,
		CreatedAt:    b.CreatedAt,
	}
}

func isKnown(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrUnknownServiceItem) ||
		errors.Is(err, ErrTimeConflict) ||
		errors.Is(err, ErrInternal)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeCreated
	case errors.Is(err, ErrTimeConflict):
		return metrics.OutcomeTimeConflict
	case errors.Is(err, ErrInvalidInput):
		return metrics.OutcomeValidationError
	case errors.Is(err, ErrUnknownServiceItem):
		return metrics.OutcomeUnknownServiceItem
	default:
		return metrics.OutcomeInternalError
	}
}
