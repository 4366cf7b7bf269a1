// internal/api/server_test.go
package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tamzrod/health-bridge/internal/status"
)

func TestHealthz(t *testing.T) {
	srv := NewServer("", status.NewTracker(), zap.NewNop().Sugar())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestStatus_ReflectsTracker(t *testing.T) {
	tracker := status.NewTracker()
	tracker.SetState(status.StateConnected)
	tracker.SetEndpoint("/dev/ttyUSB0")
	tracker.SetPatient(3)
	tracker.SetUploadEnabled(true)
	tracker.RecordFlushed()
	tracker.RecordFlushed()

	srv := NewServer("", tracker, zap.NewNop().Sugar())

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got status.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "connected", got.StateName)
	require.Equal(t, "/dev/ttyUSB0", got.Endpoint)
	require.Equal(t, 3, got.Patient)
	require.Equal(t, 2, got.Records)
	require.True(t, got.UploadEnabled)
}

func TestStatus_UnknownRouteIs404(t *testing.T) {
	srv := NewServer("", status.NewTracker(), zap.NewNop().Sugar())

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
