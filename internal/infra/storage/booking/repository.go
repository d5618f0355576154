package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SalonBookingService/pkg/psqlbuilder"
)

// Коды ошибок PostgreSQL
const (
	pgExclusionViolation  = "23P01"
	pgForeignKeyViolation = "23503"
)

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// LockResourceDays берет transaction-scoped advisory lock на каждый день мастера.
// Конкурентное создание бронирования на тот же день ждет коммита первой транзакции.
// Дни должны идти по возрастанию, чтобы транзакции брали блокировки в одном порядке.
// Работает только внутри транзакции.
func (r *Repository) LockResourceDays(ctx context.Context, resourceID int64, days []time.Time) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return fmt.Errorf("%w: LockResourceDays - advisory lock requires transaction", ErrTransaction)
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	for _, day := range days {
		key := lockKey(resourceID, day)
		if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", key); err != nil {
			return fmt.Errorf("%w: LockResourceDays - lock %s: %v", ErrExecQuery, key, err)
		}
	}

	return nil
}

func lockKey(resourceID int64, day time.Time) string {
	return fmt.Sprintf("booking:%d:%s", resourceID, day.Format(domain.DateFormat))
}

// HasOverlap проверяет, есть ли у мастера активное бронирование, пересекающее [start, end).
// Соседние интервалы (конец одного равен началу другого) не пересекаются.
func (r *Repository) HasOverlap(ctx context.Context, resourceID int64, start, end time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		Prefix("SELECT EXISTS (").
		From("bookings").
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.NotEq{"status": inactiveStatuses()}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasOverlap - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: HasOverlap - scan: %v", ErrScanRow, err)
	}

	return exists, nil
}

// Create создает заголовок бронирования.
// Нарушение exclusion constraint (пересечение интервалов) возвращается как ErrSlotNotAvailable.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"requester_id",
			"resource_id",
			"note",
			"day",
			"start_time",
			"end_time",
			"status",
		).
		Values(
			booking.RequesterID,
			booking.ResourceID,
			booking.Note,
			booking.Day,
			booking.StartAt,
			booking.EndAt,
			booking.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if isPgError(err, pgExclusionViolation) {
			return nil, fmt.Errorf("%w: Create - exclusion violation: %v", ErrSlotNotAvailable, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// CreateLineItems вставляет позиции бронирования одним запросом
func (r *Repository) CreateLineItems(ctx context.Context, bookingID int64, items []domain.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Insert("booking_line_items").
		Columns("booking_id", "service_item_id", "quantity", "unit_price")
	for _, item := range items {
		builder = builder.Values(bookingID, item.ServiceItemID, item.Quantity, item.UnitPrice)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: CreateLineItems - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return fmt.Errorf("%w: CreateLineItems - foreign key violation: %v", ErrUnknownServiceItem, err)
		}
		return fmt.Errorf("%w: CreateLineItems - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// Cancel отменяет бронирование клиента.
// Обновление применяется, только если бронирование принадлежит клиенту и не в терминальном статусе.
func (r *Repository) Cancel(ctx context.Context, id, requesterID int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancel_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "requester_id": requesterID}).
		Where(squirrel.NotEq{"status": terminalStatuses()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, "Cancel", query, args)
}

// UpdateStatus меняет статус бронирования мастера.
// Обновление применяется, только если бронирование принадлежит мастеру, не в терминальном статусе
// и статус действительно меняется. Для cancelled также пишутся причина и время отмены.
func (r *Repository) UpdateStatus(ctx context.Context, id, resourceID int64, status domain.BookingStatus, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()"))
	if status == domain.StatusCancelled {
		builder = builder.
			Set("cancel_reason", reason).
			Set("cancelled_at", squirrel.Expr("NOW()"))
	}

	query, args, err := builder.
		Where(squirrel.Eq{"id": id, "resource_id": resourceID}).
		Where(squirrel.NotEq{"status": terminalStatuses()}).
		Where(squirrel.NotEq{"status": status}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, executor, "UpdateStatus", query, args)
}

func (r *Repository) execConditional(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

// ListViews возвращает бронирования вместе с позициями и названиями услуг.
// Порядок: day, start_time, id. Названия услуг идут в порядке позиций.
func (r *Repository) ListViews(ctx context.Context, filter domain.BookingViewFilter) ([]*domain.BookingView, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"b.id",
		"b.requester_id",
		"b.resource_id",
		"b.note",
		"b.day",
		"b.start_time",
		"b.end_time",
		"b.status",
		"b.cancel_reason",
		"b.cancelled_at",
		"b.created_at",
		"b.updated_at",
		"li.id",
		"li.service_item_id",
		"li.quantity",
		"li.unit_price",
		"si.name",
	).
		From("bookings b").
		LeftJoin("booking_line_items li ON li.booking_id = b.id").
		LeftJoin("service_items si ON si.id = li.service_item_id")

	if filter.BookingID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.id": *filter.BookingID})
	}
	if filter.RequesterID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.requester_id": *filter.RequesterID})
	}
	if filter.ResourceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.resource_id": *filter.ResourceID})
	}
	if filter.Horizon != nil {
		switch *filter.Horizon {
		case domain.HorizonPast:
			selectBuilder = selectBuilder.Where(squirrel.Lt{"b.day": filter.Today})
		case domain.HorizonUpcoming:
			selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"b.day": filter.Today})
		}
	}
	if filter.ActiveOnly {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"b.status": inactiveStatuses()})
	}

	query, args, err := selectBuilder.
		OrderBy("b.day ASC", "b.start_time ASC", "b.id ASC", "li.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListViews - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListViews - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanViews(rows)
}

// scanViews группирует строки JOIN по бронированию, сохраняя порядок выборки
func (r *Repository) scanViews(rows *sql.Rows) ([]*domain.BookingView, error) {
	views := make([]*domain.BookingView, 0)
	var current *domain.BookingView

	for rows.Next() {
		var (
			b                    domain.Booking
			createdAt, updatedAt sql.NullTime
			lineID, serviceID    sql.NullInt64
			quantity             sql.NullInt32
			unitPrice            decimal.NullDecimal
			serviceName          sql.NullString
		)

		err := rows.Scan(
			&b.ID,
			&b.RequesterID,
			&b.ResourceID,
			&b.Note,
			&b.Day,
			&b.StartAt,
			&b.EndAt,
			&b.Status,
			&b.CancelReason,
			&b.CancelledAt,
			&createdAt,
			&updatedAt,
			&lineID,
			&serviceID,
			&quantity,
			&unitPrice,
			&serviceName,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanViews - scan row: %v", ErrScanRow, err)
		}

		if current == nil || current.ID != b.ID {
			b.CreatedAt = createdAt.Time
			b.UpdatedAt = updatedAt.Time
			current = &domain.BookingView{
				Booking:    b,
				Services:   make([]string, 0),
				TotalPrice: decimal.Zero,
			}
			views = append(views, current)
		}

		if !lineID.Valid {
			continue
		}

		item := domain.LineItem{
			ID:            lineID.Int64,
			BookingID:     b.ID,
			ServiceItemID: serviceID.Int64,
			Quantity:      int(quantity.Int32),
			UnitPrice:     unitPrice.Decimal,
		}
		current.LineItems = append(current.LineItems, item)
		current.Services = append(current.Services, serviceName.String)
		current.TotalPrice = current.TotalPrice.Add(item.Subtotal())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanViews - rows error: %v", ErrScanRow, err)
	}

	return views, nil
}

func inactiveStatuses() []string {
	return statusStrings(domain.InactiveStatuses)
}

func terminalStatuses() []string {
	return statusStrings(domain.TerminalStatuses)
}

func statusStrings(statuses []domain.BookingStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}

func isPgError(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}
