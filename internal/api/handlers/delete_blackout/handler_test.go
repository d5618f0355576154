package delete_blackout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SalonBookingService/internal/domain"
	"github.com/m04kA/SalonBookingService/internal/service/blackouts"
)

type serviceMock struct {
	mock.Mock
}

func (m *serviceMock) Delete(ctx context.Context, principal domain.Principal, id int64) error {
	return m.Called(ctx, principal, id).Error(0)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestHandle(t *testing.T) {
	manager := domain.Principal{ID: 1, Role: domain.RoleManager}

	svc := &serviceMock{}
	svc.On("Delete", mock.Anything, manager, int64(3)).Return(nil)
	svc.On("Delete", mock.Anything, manager, int64(99)).Return(blackouts.ErrBlackoutNotFound)
	h := NewHandler(svc, nopLogger{})

	call := func(id string) int {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/blackouts/"+id, nil)
		req = mux.SetURLVars(req, map[string]string{"blackoutId": id})
		req = req.WithContext(middleware.WithPrincipal(req.Context(), manager))
		rec := httptest.NewRecorder()
		h.Handle(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("3"))
	assert.Equal(t, http.StatusNotFound, call("99"))
	assert.Equal(t, http.StatusBadRequest, call("zero"))
	svc.AssertExpectations(t)
}
