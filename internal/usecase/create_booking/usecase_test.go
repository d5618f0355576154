package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SalonBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SalonBookingService/pkg/types"
)

// memoryStore in-memory реализация репозиториев бронирований и периодов недоступности.
// Блокировки дней работают как advisory lock: держатся до конца транзакции.
type memoryStore struct {
	mu        sync.Mutex
	nextID    int64
	bookings  []*domain.Booking
	lineItems map[int64][]domain.LineItem
	blackouts []domain.BlackoutPeriod
	dayLocks  map[string]*sync.Mutex
	events    []string

	lineItemsErr error
	overlapDelay time.Duration
	locked       [][]time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		lineItems: make(map[int64][]domain.LineItem),
		dayLocks:  make(map[string]*sync.Mutex),
	}
}

// memoryTx состояние транзакции: созданные строки и взятые блокировки
type memoryTx struct {
	created []int64
	unlocks []func()
}

type memoryTxKey struct{}

func txFromContext(ctx context.Context) *memoryTx {
	tx, _ := ctx.Value(memoryTxKey{}).(*memoryTx)
	return tx
}

func (s *memoryStore) record(event string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *memoryStore) LockResourceDays(ctx context.Context, resourceID int64, days []time.Time) error {
	tx := txFromContext(ctx)
	if tx == nil {
		return errors.New("lock outside transaction")
	}

	s.mu.Lock()
	s.events = append(s.events, "lock")
	s.locked = append(s.locked, days)
	mutexes := make([]*sync.Mutex, 0, len(days))
	for _, d := range days {
		key := fmt.Sprintf("%d:%s", resourceID, d.Format(domain.DateFormat))
		if _, ok := s.dayLocks[key]; !ok {
			s.dayLocks[key] = &sync.Mutex{}
		}
		mutexes = append(mutexes, s.dayLocks[key])
	}
	s.mu.Unlock()

	for _, m := range mutexes {
		m.Lock()
		tx.unlocks = append(tx.unlocks, m.Unlock)
	}
	return nil
}

func (s *memoryStore) HasOverlap(_ context.Context, resourceID int64, start, end time.Time) (bool, error) {
	s.record("overlap")
	time.Sleep(s.overlapDelay)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.ResourceID == resourceID && isActive(b.Status) && b.StartAt.Before(end) && start.Before(b.EndAt) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryStore) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, "create")
	s.nextID++
	b.ID = s.nextID
	b.CreatedAt = time.Now()
	copied := *b
	s.bookings = append(s.bookings, &copied)
	if tx := txFromContext(ctx); tx != nil {
		tx.created = append(tx.created, b.ID)
	}
	return b, nil
}

func (s *memoryStore) CreateLineItems(_ context.Context, bookingID int64, items []domain.LineItem) error {
	s.record("line_items")
	if s.lineItemsErr != nil {
		return s.lineItemsErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lineItems[bookingID] = append(s.lineItems[bookingID], items...)
	return nil
}

func (s *memoryStore) ExistsCovering(_ context.Context, resourceID int64, from, to time.Time) (bool, error) {
	s.record("blackout")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.blackouts {
		if p.ResourceID == resourceID && !p.StartBoundary.After(to) && !p.EndBoundary.Before(from) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryStore) rollback(ids []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		for i, b := range s.bookings {
			if b.ID == id {
				s.bookings = append(s.bookings[:i], s.bookings[i+1:]...)
				break
			}
		}
		delete(s.lineItems, id)
	}
}

func (s *memoryStore) activeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.bookings {
		if isActive(b.Status) {
			n++
		}
	}
	return n
}

func isActive(status domain.BookingStatus) bool {
	for _, inactive := range domain.InactiveStatuses {
		if status == inactive {
			return false
		}
	}
	return true
}

// memoryTxManager откатывает вставки при ошибке и отпускает блокировки дней после завершения.
// Сами транзакции не сериализуются.
type memoryTxManager struct {
	store *memoryStore
}

func (m *memoryTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	tx := &memoryTx{}
	err := fn(context.WithValue(ctx, memoryTxKey{}, tx))
	if err != nil {
		m.store.rollback(tx.created)
	}
	for i := len(tx.unlocks) - 1; i >= 0; i-- {
		tx.unlocks[i]()
	}
	return err
}

// memoryCatalog каталог услуг, который можно читать только внутри транзакции
type memoryCatalog struct {
	mu    sync.Mutex
	items map[int64]domain.ServiceItem
	store *memoryStore
}

func newMemoryCatalog(store *memoryStore) *memoryCatalog {
	items := make(map[int64]domain.ServiceItem, len(catalogItems))
	for id, item := range catalogItems {
		items[id] = item
	}
	return &memoryCatalog{items: items, store: store}
}

func (c *memoryCatalog) GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.ServiceItem, error) {
	if txFromContext(ctx) == nil {
		return nil, errors.New("catalog read outside transaction")
	}
	c.store.record("catalog")

	c.mu.Lock()
	defer c.mu.Unlock()
	result := make(map[int64]domain.ServiceItem)
	for _, id := range ids {
		if item, ok := c.items[id]; ok {
			result[id] = item
		}
	}
	return result, nil
}

func (c *memoryCatalog) set(item domain.ServiceItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[item.ID] = item
}

type outcomeRecorder struct {
	mu       sync.Mutex
	outcomes []string
}

func (r *outcomeRecorder) RecordBookingOutcome(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const (
	haircut  = int64(1) // 30 минут
	coloring = int64(2) // 45 минут
	styling  = int64(3) // 60 минут
)

var catalogItems = map[int64]domain.ServiceItem{
	haircut:  {ID: haircut, Name: "Haircut", DurationMinutes: 30, Price: decimal.RequireFromString("1500.00")},
	coloring: {ID: coloring, Name: "Coloring", DurationMinutes: 45, Price: decimal.RequireFromString("3200.50")},
	styling:  {ID: styling, Name: "Styling", DurationMinutes: 60, Price: decimal.RequireFromString("900.00")},
}

type fixture struct {
	uc       *UseCase
	store    *memoryStore
	catalog  *memoryCatalog
	outcomes *outcomeRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemoryStore()
	catalog := newMemoryCatalog(store)
	outcomes := &outcomeRecorder{}
	uc := NewUseCase(store, store, catalog, &memoryTxManager{store: store}, outcomes, time.UTC, nopLogger{})
	uc.timeProvider = fixedTime{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return &fixture{uc: uc, store: store, catalog: catalog, outcomes: outcomes}
}

func request(day int, start string, services ...int64) *Request {
	ts, err := types.NewTimeStringFromString(start)
	if err != nil {
		panic(err)
	}
	note := ""
	return &Request{
		RequesterID:    100,
		ResourceID:     7,
		Note:           &note,
		Day:            time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
		StartTime:      ts,
		ServiceItemIDs: services,
	}
}

func TestExecute_DurationSumsServices(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), request(10, "09:00", haircut, coloring))
	require.NoError(t, err)

	assert.Equal(t, 75, resp.TotalMinutes)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), resp.StartAt)
	assert.Equal(t, time.Date(2026, 3, 10, 10, 15, 0, 0, time.UTC), resp.EndAt)
	assert.Equal(t, string(domain.StatusRequested), resp.Status)
	assert.True(t, decimal.RequireFromString("4700.50").Equal(resp.TotalPrice))
	assert.Len(t, f.store.lineItems[resp.ID], 2)
	assert.Equal(t, []string{"created"}, f.outcomes.outcomes)
}

func TestExecute_DuplicateServicesAreSeparateLineItems(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), request(10, "09:00", haircut, haircut))
	require.NoError(t, err)

	assert.Equal(t, 60, resp.TotalMinutes)
	items := f.store.lineItems[resp.ID]
	require.Len(t, items, 2)
	for _, li := range items {
		assert.Equal(t, 1, li.Quantity)
		assert.Equal(t, haircut, li.ServiceItemID)
	}
}

func TestExecute_Overlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, request(10, "09:00", haircut, coloring)) // 09:00-10:15
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, request(10, "10:00", haircut))
	assert.ErrorIs(t, err, ErrTimeConflict)

	_, err = f.uc.Execute(ctx, request(10, "08:30", styling)) // 08:30-09:30
	assert.ErrorIs(t, err, ErrTimeConflict)

	assert.Equal(t, 1, f.store.activeCount())
	assert.Contains(t, f.outcomes.outcomes, "time_conflict")
}

func TestExecute_BackToBackAllowed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, request(10, "09:00", haircut, coloring)) // до 10:15
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, request(10, "10:15", haircut))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, request(10, "08:30", haircut)) // 08:30-09:00
	require.NoError(t, err)

	assert.Equal(t, 3, f.store.activeCount())
}

func TestExecute_BlackoutBlocks(t *testing.T) {
	f := newFixture(t)
	f.store.blackouts = []domain.BlackoutPeriod{{
		ResourceID:    7,
		StartBoundary: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		EndBoundary:   time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
	}}

	_, err := f.uc.Execute(context.Background(), request(11, "12:00", haircut))
	assert.ErrorIs(t, err, ErrTimeConflict)

	_, err = f.uc.Execute(context.Background(), request(13, "12:00", haircut))
	assert.NoError(t, err)
}

func TestExecute_CancelledDoesNotBlock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.uc.Execute(ctx, request(10, "09:00", haircut))
	require.NoError(t, err)

	f.store.bookings[0].Status = domain.StatusCancelled
	require.Equal(t, resp.ID, f.store.bookings[0].ID)

	_, err = f.uc.Execute(ctx, request(10, "09:00", haircut))
	assert.NoError(t, err)
}

func TestExecute_MidnightRollover(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.uc.Execute(ctx, request(10, "23:30", styling))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 3, 11, 0, 30, 0, 0, time.UTC), resp.EndAt)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), resp.Day)
	require.Len(t, f.store.locked, 1)
	assert.Len(t, f.store.locked[0], 2, "both touched days are locked")

	// бронирование следующего дня пересекается с хвостом предыдущего
	_, err = f.uc.Execute(ctx, request(11, "00:00", haircut))
	assert.ErrorIs(t, err, ErrTimeConflict)

	_, err = f.uc.Execute(ctx, request(11, "00:30", haircut))
	assert.NoError(t, err)
}

func TestExecute_PriceSnapshot(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), request(10, "09:00", haircut))
	require.NoError(t, err)

	f.catalog.set(domain.ServiceItem{ID: haircut, Name: "Haircut", DurationMinutes: 30, Price: decimal.RequireFromString("2000.00")})

	stored := f.store.lineItems[resp.ID]
	require.Len(t, stored, 1)
	assert.True(t, decimal.RequireFromString("1500.00").Equal(stored[0].UnitPrice))
}

func TestExecute_CatalogChangeAppliesToNextBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.uc.Execute(ctx, request(10, "09:00", haircut))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC), first.EndAt)

	f.catalog.set(domain.ServiceItem{ID: haircut, Name: "Haircut", DurationMinutes: 90, Price: decimal.RequireFromString("2000.00")})

	second, err := f.uc.Execute(ctx, request(10, "12:00", haircut))
	require.NoError(t, err)
	assert.Equal(t, 90, second.TotalMinutes)
	assert.Equal(t, time.Date(2026, 3, 10, 13, 30, 0, 0, time.UTC), second.EndAt)
	require.Len(t, f.store.lineItems[second.ID], 1)
	assert.True(t, decimal.RequireFromString("2000.00").Equal(f.store.lineItems[second.ID][0].UnitPrice))

	// новая длительность защищает весь интервал 12:00-13:30
	_, err = f.uc.Execute(ctx, request(10, "13:00", haircut))
	assert.ErrorIs(t, err, ErrTimeConflict)

	// первое бронирование сохранило старую цену
	assert.True(t, decimal.RequireFromString("1500.00").Equal(f.store.lineItems[first.ID][0].UnitPrice))
}

func TestExecute_LocksBeforeAvailabilityCheck(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), request(10, "09:00", haircut))
	require.NoError(t, err)

	assert.Equal(t, []string{"catalog", "lock", "blackout", "overlap", "create", "line_items"}, f.store.events)
}

func TestExecute_ConcurrentRequestsOneWins(t *testing.T) {
	f := newFixture(t)
	f.store.overlapDelay = 5 * time.Millisecond

	const workers = 10
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := request(10, "09:00", haircut)
			req.RequesterID = int64(100 + i)
			_, err := f.uc.Execute(context.Background(), req)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, ErrTimeConflict):
				conflicts.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(workers-1), conflicts.Load())
	assert.Equal(t, 1, f.store.activeCount())
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *Request)
	}{
		{name: "no resource", modify: func(r *Request) { r.ResourceID = 0 }},
		{name: "no note", modify: func(r *Request) { r.Note = nil }},
		{name: "no day", modify: func(r *Request) { r.Day = time.Time{} }},
		{name: "no start time", modify: func(r *Request) { r.StartTime = types.TimeString{} }},
		{name: "no services", modify: func(r *Request) { r.ServiceItemIDs = nil }},
		{name: "negative service id", modify: func(r *Request) { r.ServiceItemIDs = []int64{-1} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := request(10, "09:00", haircut)
			tt.modify(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, 0, f.store.activeCount())
			assert.Equal(t, []string{"validation_error"}, f.outcomes.outcomes)
		})
	}
}

func TestExecute_InPast(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), request(1, "11:59", haircut))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(context.Background(), request(1, "12:00", haircut))
	assert.NoError(t, err)
}

func TestExecute_UnknownServiceItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), request(10, "09:00", haircut, 404))
	assert.ErrorIs(t, err, ErrUnknownServiceItem)
	assert.Equal(t, 0, f.store.activeCount())
	assert.Equal(t, []string{"unknown_service_item"}, f.outcomes.outcomes)
}

func TestExecute_LineItemFailureRollsBackHeader(t *testing.T) {
	f := newFixture(t)
	f.store.lineItemsErr = errors.New("disk full")

	_, err := f.uc.Execute(context.Background(), request(10, "09:00", haircut))
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, 0, f.store.activeCount())
}

func TestExecute_ExclusionViolationIsTimeConflict(t *testing.T) {
	f := newFixture(t)
	uc := NewUseCase(&exclusionRepo{memoryStore: f.store}, f.store, f.catalog, &memoryTxManager{store: f.store},
		f.outcomes, time.UTC, nopLogger{})
	uc.timeProvider = f.uc.timeProvider

	_, err := uc.Execute(context.Background(), request(10, "09:00", haircut))
	assert.ErrorIs(t, err, ErrTimeConflict)
}

// exclusionRepo имитирует срабатывание exclusion constraint при вставке
type exclusionRepo struct {
	*memoryStore
}

func (r *exclusionRepo) Create(context.Context, *domain.Booking) (*domain.Booking, error) {
	return nil, bookingRepo.ErrSlotNotAvailable
}
