package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/kimsann/payway-checkout/internal/adapter/metrics"
	"github.com/kimsann/payway-checkout/internal/core/domain"
	"github.com/kimsann/payway-checkout/internal/core/port"
	"github.com/kimsann/payway-checkout/internal/core/port/mock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// Registered once: the prometheus default registry rejects duplicates.
var testMetrics = metrics.NewPaymentMetrics()

func newCallbackRouter(t *testing.T, svc port.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ph, err := NewPaymentHandler(svc, testMetrics, zap.NewNop())
	assert.NoError(t, err)

	router := gin.New()
	router.POST("/api/payments/callback", ph.Callback)
	return router
}

func postCallback(router *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/payments/callback",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func callbackForm() url.Values {
	form := url.Values{}
	form.Set("tran_id", "REF123")
	form.Set("status", "0")
	form.Set("apv", "10.00")
	form.Set("hash", "deadbeef")
	return form
}

// The gateway keeps retrying on 5xx and stops on anything terminal, so the
// status code is the whole contract: a persistence failure must stay
// retryable and a verification failure must not.
func TestPaymentHandler_CallbackStatusCodes(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	tests := []struct {
		name       string
		serviceErr error
		expCode    int
	}{
		{name: "Accepted", serviceErr: nil, expCode: http.StatusOK},
		{name: "Duplicate still acknowledged", serviceErr: nil, expCode: http.StatusOK},
		{name: "Invalid signature is terminal", serviceErr: domain.ErrInvalidSignature, expCode: http.StatusBadRequest},
		{name: "Amount mismatch is terminal", serviceErr: domain.ErrAmountMismatch, expCode: http.StatusUnprocessableEntity},
		{name: "Unknown order", serviceErr: domain.ErrOrderNotFound, expCode: http.StatusNotFound},
		{name: "Persistence failure is retryable", serviceErr: domain.ErrPersistence, expCode: http.StatusServiceUnavailable},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			svc := mock.NewMockService(mockCtrl)
			svc.EXPECT().ProcessCallback(gomock.Any(), gomock.Any()).
				Return(test.serviceErr)

			rec := postCallback(newCallbackRouter(t, svc), callbackForm())

			assert.Equal(t, test.expCode, rec.Code)
			if test.serviceErr == nil {
				assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
			}
		})
	}
}

func TestPaymentHandler_CallbackParsesNotice(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	svc := mock.NewMockService(mockCtrl)
	svc.EXPECT().ProcessCallback(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, notice *port.CallbackNotice) error {
			assert.Equal(t, "REF123", notice.TranID)
			assert.Equal(t, 0, notice.StatusCode)
			assert.Equal(t, "10.00", notice.ApprovedAmount)
			assert.Equal(t, "deadbeef", notice.Hash)
			assert.Equal(t, "REF123", notice.Raw["tran_id"])
			return nil
		})

	rec := postCallback(newCallbackRouter(t, svc), callbackForm())
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPaymentHandler_CallbackMalformed(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	tests := []struct {
		name   string
		mutate func(form url.Values)
	}{
		{name: "Missing tran_id", mutate: func(form url.Values) { form.Del("tran_id") }},
		{name: "Missing status", mutate: func(form url.Values) { form.Del("status") }},
		{name: "Non-numeric status", mutate: func(form url.Values) { form.Set("status", "ok") }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// No ProcessCallback expectation: malformed input stops at
			// the handler.
			svc := mock.NewMockService(mockCtrl)

			form := callbackForm()
			test.mutate(form)

			rec := postCallback(newCallbackRouter(t, svc), form)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
