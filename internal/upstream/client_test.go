package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vahango/rental-gateway/internal/config"
	"github.com/vahango/rental-gateway/internal/models"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	client := NewClient(config.UpstreamConfig{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, logger)
	return client, server
}

func writeEnvelope(w http.ResponseWriter, status int, envStatus, message, data string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == "" {
		fmt.Fprintf(w, `{"status":%q,"message":%q}`, envStatus, message)
		return
	}
	fmt.Fprintf(w, `{"status":%q,"message":%q,"data":%s}`, envStatus, message, data)
}

func TestListVehicles(t *testing.T) {
	t.Run("WrappedArray", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/vehicles", r.URL.Path)
			assert.Equal(t, "Pune", r.URL.Query().Get("city"))
			writeEnvelope(w, http.StatusOK, "Success", "ok",
				`{"vehicles":[{"id":"v1","model":"Activa 6G","category":"2-wheeler","pricePerDay":499}]}`)
		}))

		vehicles, err := client.ListVehicles(context.Background(), models.CatalogQuery{City: "Pune"})
		require.NoError(t, err)
		require.Len(t, vehicles, 1)
		assert.Equal(t, "Activa 6G", vehicles[0].Model)
		assert.Equal(t, 499.0, vehicles[0].PricePerDay)
	})

	t.Run("BareArray", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusOK, "Success", "ok", `[{"id":"v1","model":"Swift"}]`)
		}))

		vehicles, err := client.ListVehicles(context.Background(), models.CatalogQuery{})
		require.NoError(t, err)
		require.Len(t, vehicles, 1)
		assert.Equal(t, "Swift", vehicles[0].Model)
	})

	t.Run("UpstreamError", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusInternalServerError, "Error", "database down", "")
		}))

		_, err := client.ListVehicles(context.Background(), models.CatalogQuery{})
		require.Error(t, err)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Equal(t, "database down", apiErr.Message)
	})
}

func TestDecodeEnvelope_NonJSON(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "<html><body>502 Bad Gateway</body></html>")
	}))

	_, err := client.ListVehicles(context.Background(), models.CatalogQuery{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected response")
	assert.Contains(t, err.Error(), "502")
}

func TestDecodeEnvelope_SuccessStatusRequired(t *testing.T) {
	// HTTP 200 with a non-Success envelope status is still a failure
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, "Failure", "vehicle unavailable", "")
	}))

	_, err := client.GetVehicle(context.Background(), "v1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vehicle unavailable")
}

func TestClient_Unreachable(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	client := NewClient(config.UpstreamConfig{
		BaseURL: "http://127.0.0.1:1",
		Timeout: time.Second,
	}, logger)

	_, err := client.ListVehicles(context.Background(), models.CatalogQuery{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestCreateBooking(t *testing.T) {
	t.Run("FlatID", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			writeEnvelope(w, http.StatusOK, "Success", "created", `{"id":"bk-1"}`)
		}))

		id, err := client.CreateBooking(context.Background(), "tok-1", models.CreateBookingRequest{VehicleID: "v1"})
		require.NoError(t, err)
		assert.Equal(t, "bk-1", id)
	})

	t.Run("NestedID", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusOK, "Success", "created", `{"booking":{"id":"bk-2"}}`)
		}))

		id, err := client.CreateBooking(context.Background(), "tok-1", models.CreateBookingRequest{VehicleID: "v1"})
		require.NoError(t, err)
		assert.Equal(t, "bk-2", id)
	})

	t.Run("MissingID", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusOK, "Success", "created", `{}`)
		}))

		_, err := client.CreateBooking(context.Background(), "tok-1", models.CreateBookingRequest{VehicleID: "v1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no booking ID")
	})
}

func TestCreatePaymentOrder(t *testing.T) {
	req := models.PaymentOrderRequest{
		Amount:    1497,
		Currency:  models.DefaultCurrency,
		BookingID: "bk-1",
	}

	t.Run("FlatSessionID", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusOK, "Success", "ok", `{"payment_session_id":"sess-1"}`)
		}))

		id, err := client.CreatePaymentOrder(context.Background(), "tok-1", req)
		require.NoError(t, err)
		assert.Equal(t, "sess-1", id)
	})

	t.Run("NestedSessionID", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusOK, "Success", "ok", `{"order":{"payment_session_id":"sess-2"}}`)
		}))

		id, err := client.CreatePaymentOrder(context.Background(), "tok-1", req)
		require.NoError(t, err)
		assert.Equal(t, "sess-2", id)
	})

	t.Run("MissingSessionID", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusOK, "Success", "ok", `{"order":{"amount":1497}}`)
		}))

		_, err := client.CreatePaymentOrder(context.Background(), "tok-1", req)
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrInvalidSessionID)
	})
}

func TestUpdateBookingStatus(t *testing.T) {
	method := models.PaymentMethodOffline
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/bookings/bk-1/status", r.URL.Path)
		writeEnvelope(w, http.StatusOK, "Success", "updated",
			`{"id":"bk-1","status":"accepted","paymentMethod":"offline","paymentStatus":"pending"}`)
	}))

	booking, err := client.UpdateBookingStatus(context.Background(), "tok-1", models.StatusUpdateRequest{
		BookingID:     "bk-1",
		Status:        models.BookingStatusAccepted,
		OwnerID:       "own-1",
		PaymentMethod: &method,
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusAccepted, booking.Status)
	assert.Equal(t, models.PaymentMethodOffline, booking.PaymentMethod)
}

func TestCompleteBooking(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/bookings/bk-1/complete", r.URL.Path)
		writeEnvelope(w, http.StatusOK, "Success", "completed", `{"id":"bk-1","status":"completed"}`)
	}))

	booking, err := client.CompleteBooking(context.Background(), "tok-1", "bk-1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, booking.Status)
}

func TestSubmitLicensePhotos(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "multipart/form-data")
		writeEnvelope(w, http.StatusOK, "Success", "submitted",
			`{"id":"u1","name":"Asha","licenseStatus":"pending"}`)
	}))

	profile, err := client.SubmitLicensePhotos(context.Background(), "tok-1",
		"multipart/form-data; boundary=xyz", nil)
	require.NoError(t, err)
	assert.Equal(t, models.KYCPending, profile.LicenseStatus)
}
