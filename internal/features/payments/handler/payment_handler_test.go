package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"payurl-service/internal/features/payments/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPaymentService is a mock implementation of ports.PaymentService.
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) ResolvePayURL(ctx context.Context, orderIDs []string) (*domain.BatchOutcome, error) {
	args := m.Called(ctx, orderIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchOutcome), args.Error(1)
}

func (m *MockPaymentService) GetPayStatus(ctx context.Context, orderID string) (*domain.PayStatusResult, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayStatusResult), args.Error(1)
}

func setupApp(service *MockPaymentService) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	h := NewPaymentHandler(service)
	app.Post("/api/pay-url", h.GetPayURL)
	app.Get("/api/pay-status/:order_id", h.GetPayStatus)
	return app
}

func postPayURL(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/pay-url", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestPaymentHandler_GetPayURL(t *testing.T) {
	t.Run("PartialSuccess", func(t *testing.T) {
		mockService := new(MockPaymentService)
		app := setupApp(mockService)

		outcome := domain.PartialSuccess(domain.Batch{"101", "102", "103"}, domain.Batch{"101", "103"}, "https://pay/x", "order [102] not payable")
		mockService.On("ResolvePayURL", mock.Anything, []string{"101", "102", "103"}).Return(outcome, nil).Once()

		resp := postPayURL(t, app, `{"order_ids":["101","102","103"]}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "https://pay/x", body["pay_url"])
		assert.Equal(t, []any{"101", "103"}, body["success_order_ids"])
		assert.Equal(t, []any{"102"}, body["failed_order_ids"])
		assert.Equal(t, float64(2), body["success_count"])
		assert.Equal(t, float64(1), body["failed_count"])
		assert.Equal(t, float64(3), body["total_count"])
		assert.Equal(t, "order [102] not payable", body["error_msg"])
		mockService.AssertExpectations(t)
	})

	t.Run("RemoteFailureIsStillOK", func(t *testing.T) {
		mockService := new(MockPaymentService)
		app := setupApp(mockService)

		outcome := domain.AllFailed(domain.Batch{"101"}, "unknown error")
		mockService.On("ResolvePayURL", mock.Anything, []string{"101"}).Return(outcome, nil).Once()

		resp := postPayURL(t, app, `{"order_ids":["101"]}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidBody", func(t *testing.T) {
		mockService := new(MockPaymentService)
		app := setupApp(mockService)

		resp := postPayURL(t, app, `{"order_ids":`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "test-ray-id", body.RayID)
		mockService.AssertNotCalled(t, "ResolvePayURL", mock.Anything, mock.Anything)
	})

	t.Run("NumericOrderIDs", func(t *testing.T) {
		mockService := new(MockPaymentService)
		app := setupApp(mockService)

		outcome := domain.FullSuccess(domain.Batch{"4987103580454334805", "101"}, "https://pay/x")
		mockService.On("ResolvePayURL", mock.Anything, []string{"4987103580454334805", "101"}).Return(outcome, nil).Once()

		resp := postPayURL(t, app, `{"order_ids":[4987103580454334805,"101"]}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockService.AssertExpectations(t)
	})

	t.Run("NonScalarOrderID", func(t *testing.T) {
		mockService := new(MockPaymentService)
		app := setupApp(mockService)

		resp := postPayURL(t, app, `{"order_ids":[true,{"id":"101"}]}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mockService.AssertNotCalled(t, "ResolvePayURL", mock.Anything, mock.Anything)
	})

	t.Run("TooManyOrders", func(t *testing.T) {
		mockService := new(MockPaymentService)
		app := setupApp(mockService)

		ids := make([]string, 31)
		for i := range ids {
			ids[i] = fmt.Sprintf("%q", fmt.Sprint(100+i))
		}
		resp := postPayURL(t, app, `{"order_ids":[`+strings.Join(ids, ",")+`]}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mockService.AssertNotCalled(t, "ResolvePayURL", mock.Anything, mock.Anything)
	})

	t.Run("ValidationError", func(t *testing.T) {
		mockService := new(MockPaymentService)
		app := setupApp(mockService)

		mockService.On("ResolvePayURL", mock.Anything, []string{" "}).Return(nil, domain.ErrEmptyBatch).Once()

		resp := postPayURL(t, app, `{"order_ids":[" "]}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, domain.ErrEmptyBatch.Error(), body.Message)
		mockService.AssertExpectations(t)
	})

	t.Run("InternalError", func(t *testing.T) {
		mockService := new(MockPaymentService)
		app := setupApp(mockService)

		mockService.On("ResolvePayURL", mock.Anything, []string{"101"}).Return(nil, errors.New("boom")).Once()

		resp := postPayURL(t, app, `{"order_ids":["101"]}`)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockService.AssertExpectations(t)
	})
}

func TestPaymentHandler_GetPayStatus(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockPaymentService)
		app := setupApp(mockService)

		status := "已付款"
		result := &domain.PayStatusResult{Success: true, OrderID: "4987103580454334805", PayStatus: &status}
		mockService.On("GetPayStatus", mock.Anything, "4987103580454334805").Return(result, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/pay-status/4987103580454334805", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body domain.PayStatusResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.True(t, body.Success)
		require.NotNil(t, body.PayStatus)
		assert.Equal(t, "已付款", *body.PayStatus)
		mockService.AssertExpectations(t)
	})

	t.Run("Failure", func(t *testing.T) {
		mockService := new(MockPaymentService)
		app := setupApp(mockService)

		result := &domain.PayStatusResult{Success: false, OrderID: "101", ErrorMsg: "order not found"}
		mockService.On("GetPayStatus", mock.Anything, "101").Return(result, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/pay-status/101", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "order not found", body["error_msg"])
		assert.NotContains(t, body, "pay_status")
		mockService.AssertExpectations(t)
	})

	t.Run("BlankOrderID", func(t *testing.T) {
		mockService := new(MockPaymentService)
		app := setupApp(mockService)

		mockService.On("GetPayStatus", mock.Anything, "  ").Return(nil, domain.ErrEmptyOrderID).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/pay-status/%20%20", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mockService.AssertExpectations(t)
	})
}

func TestOrderIDList_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    OrderIDList
		wantErr bool
	}{
		{"Strings", `["101","102"]`, OrderIDList{"101", "102"}, false},
		{"LargeInteger", `[4987103580454334805]`, OrderIDList{"4987103580454334805"}, false},
		{"Mixed", `[" 101",102]`, OrderIDList{" 101", "102"}, false},
		{"Empty", `[]`, OrderIDList{}, false},
		{"Bool", `[true]`, nil, true},
		{"NotAList", `"101"`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got OrderIDList
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
