package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SalonBookingService/internal/domain"
)

const keyPrefix = "salon:service_item:"

// Source источник услуг, который кэшируется (storage/catalog.Repository)
type Source interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.ServiceItem, error)
}

type Logger interface {
	Debug(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// Cache read-through кэш каталога услуг в Redis для отображения каталога.
// При недоступности Redis запросы идут напрямую в источник.
// Данные могут отставать от источника на ttl, поэтому создание бронирования читает источник напрямую.
type Cache struct {
	client *redis.Client
	source Source
	ttl    time.Duration
	logger Logger
}

func NewCache(client *redis.Client, source Source, ttl time.Duration, logger Logger) *Cache {
	return &Cache{
		client: client,
		source: source,
		ttl:    ttl,
		logger: logger,
	}
}

// cachedItem формат хранения услуги в Redis. Цена хранится строкой, чтобы не терять точность.
type cachedItem struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
	Price           string `json:"price"`
}

func (c *Cache) GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.ServiceItem, error) {
	items := make(map[int64]domain.ServiceItem, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	unique := uniqueIDs(ids)
	keys := make([]string, len(unique))
	for i, id := range unique {
		keys[i] = key(id)
	}

	cached, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		c.logger.Warn("catalog cache: MGET failed, falling back to storage: %v", err)
		return c.source.GetByIDs(ctx, ids)
	}

	missing := make([]int64, 0)
	for i, raw := range cached {
		item, ok := decode(raw)
		if !ok {
			missing = append(missing, unique[i])
			continue
		}
		items[item.ID] = item
	}

	c.logger.Debug("catalog cache: %d hits, %d misses", len(items), len(missing))
	if len(missing) == 0 {
		return items, nil
	}

	loaded, err := c.source.GetByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}

	pipe := c.client.Pipeline()
	for id, item := range loaded {
		items[id] = item
		data, err := encode(item)
		if err != nil {
			continue
		}
		pipe.Set(ctx, key(id), data, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("catalog cache: failed to store %d items: %v", len(loaded), err)
	}

	return items, nil
}

func key(id int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, id)
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

func encode(item domain.ServiceItem) ([]byte, error) {
	return json.Marshal(cachedItem{
		ID:              item.ID,
		Name:            item.Name,
		DurationMinutes: item.DurationMinutes,
		Price:           item.Price.String(),
	})
}

func decode(raw interface{}) (domain.ServiceItem, bool) {
	s, ok := raw.(string)
	if !ok {
		return domain.ServiceItem{}, false
	}

	var ci cachedItem
	if err := json.Unmarshal([]byte(s), &ci); err != nil {
		return domain.ServiceItem{}, false
	}

	price, err := decimal.NewFromString(ci.Price)
	if err != nil {
		return domain.ServiceItem{}, false
	}

	return domain.ServiceItem{
		ID:              ci.ID,
		Name:            ci.Name,
		DurationMinutes: ci.DurationMinutes,
		Price:           price,
	}, true
}
