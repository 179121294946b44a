package plan

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gymdesk/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type MockPlanService struct{ mock.Mock }

func (m *MockPlanService) CreatePlan(ctx context.Context, req CreatePlanRequest) (*Plan, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Plan), args.Error(1)
}

func (m *MockPlanService) UpdatePlan(ctx context.Context, id int, req UpdatePlanRequest) (*Plan, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Plan), args.Error(1)
}

func (m *MockPlanService) ArchivePlan(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPlanService) GetPlan(ctx context.Context, id int) (*Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Plan), args.Error(1)
}

func (m *MockPlanService) ListPlans(ctx context.Context, includeArchived bool) ([]Plan, error) {
	args := m.Called(ctx, includeArchived)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Plan), args.Error(1)
}

func postCreatePlan(h *Handler, body string) *httptest.ResponseRecorder {
	router := gin.New()
	router.POST("/admin/plans", h.CreatePlan)

	req := httptest.NewRequest("POST", "/admin/plans", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_CreatePlan(t *testing.T) {
	t.Run("rejects an unknown duration kind with field details", func(t *testing.T) {
		h := &Handler{service: new(MockPlanService)}

		w := postCreatePlan(h, `{"name":"Standard","price_cents":4999,"duration_kind":"weekly","features":["gym access"]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "validation failed")
		assert.Contains(t, w.Body.String(), "DurationKind must be one of")
	})

	t.Run("rejects a negative price", func(t *testing.T) {
		h := &Handler{service: new(MockPlanService)}

		w := postCreatePlan(h, `{"name":"Standard","price_cents":-1,"duration_kind":"monthly","features":["gym access"]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "PriceCents must be greater than or equal to 0")
	})

	t.Run("creates a valid plan", func(t *testing.T) {
		svc := new(MockPlanService)
		h := &Handler{service: svc}

		svc.On("CreatePlan", mock.Anything, mock.MatchedBy(func(req CreatePlanRequest) bool {
			return req.Name == "Standard" && req.DurationKind == "monthly"
		})).Return(&Plan{ID: 1, Name: "Standard", PriceCents: 4999, DurationKind: DurationMonthly}, nil)

		w := postCreatePlan(h, `{"name":"Standard","price_cents":4999,"duration_kind":"monthly","features":["gym access"]}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"Standard"`)
		svc.AssertExpectations(t)
	})
}
