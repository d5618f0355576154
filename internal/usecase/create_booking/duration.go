package create_booking

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

// Calculation результат расчета длительности и цен по выбранным услугам
type Calculation struct {
	TotalMinutes int
	LineItems    []domain.LineItem // по одной позиции на каждое вхождение услуги, цена на момент расчета
}

// EndAt время окончания бронирования, начинающегося в startAt.
// Считается по полной дате, поэтому переход через полночь сохраняется.
func (c *Calculation) EndAt(startAt time.Time) time.Time {
	return startAt.Add(time.Duration(c.TotalMinutes) * time.Minute)
}

// DurationCalculator считает суммарную длительность бронирования по каталогу услуг
type DurationCalculator struct {
	catalog ServiceCatalog
}

func NewDurationCalculator(catalog ServiceCatalog) *DurationCalculator {
	return &DurationCalculator{catalog: catalog}
}

// Compute суммирует длительность каждого вхождения услуги и фиксирует цены.
// Неизвестный id возвращает ErrUnknownServiceItem.
func (c *DurationCalculator) Compute(ctx context.Context, serviceItemIDs []int64) (*Calculation, error) {
	if len(serviceItemIDs) == 0 {
		return nil, fmt.Errorf("%w: no service items", ErrInvalidInput)
	}

	items, err := c.catalog.GetByIDs(ctx, serviceItemIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load service items: %v", ErrInternal, err)
	}

	calc := &Calculation{
		LineItems: make([]domain.LineItem, 0, len(serviceItemIDs)),
	}
	for _, id := range serviceItemIDs {
		item, ok := items[id]
		if !ok {
			return nil, fmt.Errorf("%w: id=%d", ErrUnknownServiceItem, id)
		}
		calc.TotalMinutes += item.DurationMinutes
		calc.LineItems = append(calc.LineItems, domain.LineItem{
			ServiceItemID: id,
			Quantity:      domain.DefaultLineQuantity,
			UnitPrice:     item.Price,
		})
	}

	return calc, nil
}
