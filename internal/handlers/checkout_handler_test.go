package handlers

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vahango/rental-gateway/internal/config"
	"github.com/vahango/rental-gateway/internal/middleware"
	"github.com/vahango/rental-gateway/internal/services"
	"github.com/vahango/rental-gateway/internal/upstream"
	"github.com/vahango/rental-gateway/pkg/jwt"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// marketplaceStub answers the upstream endpoints one happy-path checkout
// touches
func marketplaceStub(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasPrefix(r.URL.Path, "/api/vehicles/"):
			fmt.Fprint(w, `{"status":"Success","message":"ok","data":{"id":"v1","model":"Activa 6G","userId":"u-owner","pricePerDay":499}}`)
		case strings.HasPrefix(r.URL.Path, "/api/owners/"):
			fmt.Fprint(w, `{"status":"Success","message":"ok","data":{"id":"u-owner","name":"Ravi","address":"12 MG Road"}}`)
		case r.URL.Path == "/api/bookings":
			fmt.Fprint(w, `{"status":"Success","message":"created","data":{"id":"bk-1"}}`)
		case r.URL.Path == "/api/payments/orders":
			fmt.Fprint(w, `{"status":"Success","message":"ok","data":{"payment_session_id":"sess-1"}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func setupCheckoutRouter(t *testing.T) (*gin.Engine, *jwt.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := testLogger()
	server := marketplaceStub(t)

	client := upstream.NewClient(config.UpstreamConfig{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, logger)

	checkoutSvc := services.NewCheckoutService(
		client,
		services.NewDraftService(nil, time.Minute, logger),
		nil,
		services.NewEventPublisher(config.EventsConfig{}, logger),
		config.GatewayConfig{Environment: "sandbox", ReturnURL: "https://rent.vahango.in/payment/return"},
		logger,
	)

	jwtService := jwt.NewService("access-secret", "refresh-secret", time.Hour, 24*time.Hour)

	router := gin.New()
	handler := NewCheckoutHandler(checkoutSvc)
	router.POST("/api/v1/checkout", middleware.AuthMiddleware(jwtService), handler.Checkout)
	return router, jwtService
}

func TestCheckoutEndpoint_Success(t *testing.T) {
	router, jwtService := setupCheckoutRouter(t)

	token, err := jwtService.GenerateAccessToken("u-renter", "Asha", "9812345670", "asha@example.com", []string{"renter"})
	require.NoError(t, err)

	body := `{"vehicleId":"v1","startDate":"2026-09-01","totalDays":3}`
	req := httptest.NewRequest("POST", "/api/v1/checkout", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"bookingId":"bk-1"`)
	assert.Contains(t, w.Body.String(), `"paymentSessionId":"sess-1"`)
	assert.Contains(t, w.Body.String(), `"currency":"INR"`)
	assert.Contains(t, w.Body.String(), "session_id=sess-1")
}

func TestCheckoutEndpoint_MissingStartDate(t *testing.T) {
	router, jwtService := setupCheckoutRouter(t)

	token, err := jwtService.GenerateAccessToken("u-renter", "", "", "", nil)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/checkout", strings.NewReader(`{"vehicleId":"v1"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Start date is required")
}

func TestCheckoutEndpoint_Unauthenticated(t *testing.T) {
	router, _ := setupCheckoutRouter(t)

	req := httptest.NewRequest("POST", "/api/v1/checkout",
		strings.NewReader(`{"vehicleId":"v1","startDate":"2026-09-01","totalDays":1}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
