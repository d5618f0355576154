package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SalonBookingService/pkg/psqlbuilder"
)

var (
	ErrBuildQuery = errors.New("catalog.repository: failed to build query")
	ErrExecQuery  = errors.New("catalog.repository: failed to execute query")
	ErrScanRow    = errors.New("catalog.repository: failed to scan row")
)

// Repository читает каталог услуг (таблица service_items ведется внешней системой)
type Repository struct {
	db dbmetrics.DBExecutor
}

func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByIDs возвращает найденные услуги по id. Отсутствующие id в результат не попадают.
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.ServiceItem, error) {
	items := make(map[int64]domain.ServiceItem, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "duration_minutes", "price").
		From("service_items").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.ServiceItem
		if err := rows.Scan(&item.ID, &item.Name, &item.DurationMinutes, &item.Price); err != nil {
			return nil, fmt.Errorf("%w: GetByIDs - scan row: %v", ErrScanRow, err)
		}
		items[item.ID] = item
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - rows error: %v", ErrScanRow, err)
	}

	return items, nil
}
