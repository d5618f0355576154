package blackout

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SalonBookingService/pkg/psqlbuilder"
)

// Repository репозиторий периодов недоступности мастеров
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория периодов недоступности
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает период недоступности
func (r *Repository) Create(ctx context.Context, period *domain.BlackoutPeriod) (*domain.BlackoutPeriod, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blackout_periods").
		Columns("resource_id", "start_boundary", "end_boundary").
		Values(period.ResourceID, period.StartBoundary, period.EndBoundary).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&period.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	period.CreatedAt = createdAt.Time

	return period, nil
}

// Delete удаляет период недоступности
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blackout_periods").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlackoutNotFound
	}

	return nil
}

// List возвращает периоды недоступности, отсортированные по началу и мастеру.
// Если resourceID == nil - по всем мастерам.
func (r *Repository) List(ctx context.Context, resourceID *int64) ([]*domain.BlackoutPeriod, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"resource_id",
		"start_boundary",
		"end_boundary",
		"created_at",
	).
		From("blackout_periods").
		OrderBy("start_boundary ASC", "resource_id ASC", "id ASC")

	if resourceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"resource_id": *resourceID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	periods := make([]*domain.BlackoutPeriod, 0)
	for rows.Next() {
		var p domain.BlackoutPeriod
		var createdAt sql.NullTime
		if err := rows.Scan(&p.ID, &p.ResourceID, &p.StartBoundary, &p.EndBoundary, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		p.CreatedAt = createdAt.Time
		periods = append(periods, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return periods, nil
}

// ExistsCovering проверяет, попадает ли хотя бы один день из [from, to] в период недоступности мастера
func (r *Repository) ExistsCovering(ctx context.Context, resourceID int64, from, to time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		Prefix("SELECT EXISTS (").
		From("blackout_periods").
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.LtOrEq{"start_boundary": to}).
		Where(squirrel.GtOrEq{"end_boundary": from}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ExistsCovering - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: ExistsCovering - scan: %v", ErrScanRow, err)
	}

	return exists, nil
}
