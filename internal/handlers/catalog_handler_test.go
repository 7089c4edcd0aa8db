package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vahango/rental-gateway/internal/config"
	"github.com/vahango/rental-gateway/internal/services"
	"github.com/vahango/rental-gateway/internal/upstream"
)

func setupCatalogRouter(t *testing.T, handler http.Handler) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := testLogger()
	client := upstream.NewClient(config.UpstreamConfig{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, logger)

	catalogHandler := NewCatalogHandler(services.NewCatalogService(client, nil, logger), client)

	router := gin.New()
	router.GET("/api/v1/vehicles", catalogHandler.Browse)
	router.GET("/api/v1/vehicles/:id", catalogHandler.GetVehicle)
	return router
}

func TestBrowseEndpoint(t *testing.T) {
	router := setupCatalogRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Pune", r.URL.Query().Get("city"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"Success","message":"ok","data":{"vehicles":[
			{"id":"v1","model":"Activa","category":"2-wheeler","vehicleType":"scooty","userId":"u1"},
			{"id":"v2","model":"Activa","category":"2-wheeler","vehicleType":"scooty","userId":"u1"}
		]}}`)
	}))

	req := httptest.NewRequest("GET", "/api/v1/vehicles?city=Pune&tab=all", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Groups []struct {
			Key   string `json:"key"`
			Count int    `json:"count"`
		} `json:"groups"`
		Degraded bool `json:"degraded"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Groups, 1)
	assert.Equal(t, 2, resp.Groups[0].Count)
	assert.False(t, resp.Degraded)
}

func TestBrowseEndpoint_UpstreamDownIsDegradedNotError(t *testing.T) {
	router := setupCatalogRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
	}))

	req := httptest.NewRequest("GET", "/api/v1/vehicles", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"degraded":true`)
	assert.Contains(t, w.Body.String(), `"groups":[]`)
}

func TestGetVehicleEndpoint_NotFound(t *testing.T) {
	router := setupCatalogRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"status":"Error","message":"Vehicle not found"}`)
	}))

	req := httptest.NewRequest("GET", "/api/v1/vehicles/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Vehicle not found")
}
