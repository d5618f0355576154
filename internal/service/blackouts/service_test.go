package blackouts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SalonBookingService/internal/domain"
	blackoutRepo "github.com/m04kA/SalonBookingService/internal/infra/storage/blackout"
	"github.com/m04kA/SalonBookingService/internal/service/blackouts/models"
)

type repoMock struct {
	mock.Mock
}

func (m *repoMock) Create(ctx context.Context, p *domain.BlackoutPeriod) (*domain.BlackoutPeriod, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(*domain.BlackoutPeriod)
	return created, args.Error(1)
}

func (m *repoMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *repoMock) List(ctx context.Context, resourceID *int64) ([]*domain.BlackoutPeriod, error) {
	args := m.Called(ctx, resourceID)
	periods, _ := args.Get(0).([]*domain.BlackoutPeriod)
	return periods, args.Error(1)
}

type lockerMock struct {
	mock.Mock
}

func (m *lockerMock) LockResourceDays(ctx context.Context, resourceID int64, days []time.Time) error {
	return m.Called(ctx, resourceID, days).Error(0)
}

type txKey struct{}

// fakeTxManager помечает контекст транзакции, чтобы проверить, что вызовы идут внутри нее
type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(context.WithValue(ctx, txKey{}, true))
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

func newService(repo *repoMock) (*Service, *lockerMock, *fakeTxManager) {
	locker := &lockerMock{}
	tx := &fakeTxManager{}
	return NewService(repo, locker, tx, nopLogger{}), locker, tx
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var manager = domain.Principal{ID: 1, Role: domain.RoleManager}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestCreate(t *testing.T) {
	repo := &repoMock{}
	svc, locker, tx := newService(repo)

	var order []string
	locker.On("LockResourceDays", mock.MatchedBy(inTx), int64(7), []time.Time{day(10), day(11), day(12)}).
		Run(func(mock.Arguments) { order = append(order, "lock") }).
		Return(nil)
	repo.On("Create", mock.MatchedBy(inTx), mock.MatchedBy(func(p *domain.BlackoutPeriod) bool {
		return p.ResourceID == 7 && p.StartBoundary.Equal(day(10)) && p.EndBoundary.Equal(day(12))
	})).
		Run(func(mock.Arguments) { order = append(order, "create") }).
		Return(&domain.BlackoutPeriod{ID: 3, ResourceID: 7, StartBoundary: day(10), EndBoundary: day(12)}, nil)

	resp, err := svc.Create(context.Background(), manager, &models.CreateBlackoutRequest{
		ResourceID:    7,
		StartBoundary: day(10),
		EndBoundary:   day(12),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.ID)
	assert.Equal(t, "2026-03-12", resp.EndBoundary)
	assert.Equal(t, []string{"lock", "create"}, order)
	assert.Equal(t, 1, tx.calls)
	repo.AssertExpectations(t)
	locker.AssertExpectations(t)
}

func TestCreate_LockFailure(t *testing.T) {
	repo := &repoMock{}
	svc, locker, _ := newService(repo)

	locker.On("LockResourceDays", mock.Anything, int64(7), mock.Anything).Return(errors.New("lock timeout"))

	_, err := svc.Create(context.Background(), manager, &models.CreateBlackoutRequest{
		ResourceID:    7,
		StartBoundary: day(10),
		EndBoundary:   day(10),
	})
	assert.ErrorIs(t, err, ErrInternal)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_Rejections(t *testing.T) {
	svc, _, tx := newService(&repoMock{})
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.Principal{ID: 7, Role: domain.RoleDesigner},
		&models.CreateBlackoutRequest{ResourceID: 7, StartBoundary: day(10), EndBoundary: day(12)})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.Create(ctx, manager,
		&models.CreateBlackoutRequest{ResourceID: 7, StartBoundary: day(12), EndBoundary: day(10)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, manager,
		&models.CreateBlackoutRequest{ResourceID: 0, StartBoundary: day(10), EndBoundary: day(10)})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, tx.calls)
}

func TestDelete(t *testing.T) {
	repo := &repoMock{}
	svc, _, _ := newService(repo)

	repo.On("Delete", mock.Anything, int64(3)).Return(nil)
	repo.On("Delete", mock.Anything, int64(99)).Return(blackoutRepo.ErrBlackoutNotFound)

	assert.NoError(t, svc.Delete(context.Background(), manager, 3))
	assert.ErrorIs(t, svc.Delete(context.Background(), manager, 99), ErrBlackoutNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), domain.Principal{ID: 100, Role: domain.RoleClient}, 3), ErrAccessDenied)
}

func TestList(t *testing.T) {
	repo := &repoMock{}
	svc, _, _ := newService(repo)

	repo.On("List", mock.Anything, (*int64)(nil)).Return([]*domain.BlackoutPeriod{
		{ID: 1, ResourceID: 7, StartBoundary: day(1), EndBoundary: day(2)},
	}, nil)

	resp, err := svc.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, resp.Blackouts, 1)
	assert.Equal(t, "2026-03-01", resp.Blackouts[0].StartBoundary)

	bad := int64(-1)
	_, err = svc.List(context.Background(), &bad)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
