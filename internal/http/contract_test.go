//go:build contract

package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gan-shmuel/weight-service/internal/domain/model"
	"github.com/gan-shmuel/weight-service/internal/mocks"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func intPtr(v int) *int { return &v }

// TestAPI_ContractCompliance validates that API responses match the field
// names scales and the billing service rely on.
func TestAPI_ContractCompliance(t *testing.T) {
	weighing := mocks.NewMockWeighingService(t)
	registry := mocks.NewMockContainerRegistry(t)
	batch := mocks.NewMockBatchImporter(t)

	weighing.On("Record", mock.Anything, mock.MatchedBy(func(r model.WeighingRequest) bool {
		return r.Direction == model.DirectionIn
	})).Return(model.WeighingResult{
		Direction: model.DirectionIn,
		Entry:     &model.EntryResult{SessionID: 1, Truck: "T-14409", Bruto: 15000},
	}, nil).Maybe()
	weighing.On("Record", mock.Anything, mock.MatchedBy(func(r model.WeighingRequest) bool {
		return r.Direction == model.DirectionOut
	})).Return(model.WeighingResult{
		Direction: model.DirectionOut,
		Exit:      &model.ExitResult{SessionID: 1, Truck: "T-14409", TruckTara: 5000, Neto: 9704},
	}, nil).Maybe()
	weighing.On("GetSession", mock.Anything, int64(1)).Return(model.SessionView{
		ID: 1, Truck: "T-14409", Bruto: intPtr(15000), TruckTara: intPtr(5000), Neto: intPtr(9704), Produce: "orange",
	}, nil).Maybe()
	weighing.On("GetItem", mock.Anything, "C-35434", mock.Anything).Return(model.ItemView{
		ID: "C-35434", Tara: model.TaraUnknown, Sessions: []int64{1},
	}, nil).Maybe()
	weighing.On("ListWeighings", mock.Anything, mock.Anything, mock.Anything).Return([]model.WeighingView{{
		ID: 2, Session: 1, Direction: "out", Truck: "T-14409", Neto: intPtr(9704), Produce: "orange",
		Containers: []string{"C-35434"}, Timestamp: "20260302101500",
	}}, nil).Maybe()
	registry.On("ListUnknown", mock.Anything).Return([]string{"C-35434"}, nil).Maybe()
	batch.On("ImportBatch", mock.Anything, "containers1.csv").Return(2, nil).Maybe()
	logging := mocks.NewMockLoggingService(t)
	logging.On("CreateLog", mock.Anything, mock.Anything).Return(nil).Maybe()
	logging.On("CreateLogs", mock.Anything, mock.Anything).Return(nil).Maybe()
	logging.On("History", mock.Anything, mock.Anything).Return(model.LogPage{
		Entries: []model.LogEntry{{Level: "info", Message: "weight_out", ActionType: model.ActionWeightOut, Truck: "T-14409", SessionID: 1}},
		Total:   1,
		Limit:   model.DefaultLogLimit,
	}, nil).Maybe()

	handler := NewHandler(weighing, registry, batch,
		WithLoggingService(logging), WithClock(func() time.Time { return fixedContractNow }))
	cfg := DefaultRouterConfig()
	cfg.EnableIdempotency = false
	router := NewRouter(handler, NewHealthHandler(nil), cfg)

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
		expectedKeys   []string
	}{
		{
			name:           "POST /weight in",
			method:         http.MethodPost,
			path:           "/weight",
			body:           `{"direction":"in","truck":"T-14409","containers":"C-35434","weight":15000}`,
			expectedStatus: http.StatusOK,
			expectedKeys:   []string{"session", "truck", "bruto"},
		},
		{
			name:           "POST /weight out",
			method:         http.MethodPost,
			path:           "/weight",
			body:           `{"direction":"out","truck":"T-14409","weight":5000}`,
			expectedStatus: http.StatusOK,
			expectedKeys:   []string{"session", "truck", "truckTara", "neto"},
		},
		{
			name:           "GET /session/:id",
			method:         http.MethodGet,
			path:           "/session/1",
			expectedStatus: http.StatusOK,
			expectedKeys:   []string{"id", "truck", "bruto", "truckTara", "neto", "produce"},
		},
		{
			name:           "GET /item/:id",
			method:         http.MethodGet,
			path:           "/item/C-35434",
			expectedStatus: http.StatusOK,
			expectedKeys:   []string{"id", "tara", "sessions"},
		},
		{
			name:           "POST /batch-weight",
			method:         http.MethodPost,
			path:           "/batch-weight",
			body:           `{"file":"containers1.csv"}`,
			expectedStatus: http.StatusOK,
			expectedKeys:   []string{"file", "imported"},
		},
		{
			name:           "GET /audit",
			method:         http.MethodGet,
			path:           "/audit?truck=T-14409",
			expectedStatus: http.StatusOK,
			expectedKeys:   []string{"entries", "total", "limit", "offset"},
		},
		{
			name:           "error body",
			method:         http.MethodPost,
			path:           "/weight",
			body:           `{"direction":"in"}`,
			expectedStatus: http.StatusBadRequest,
			expectedKeys:   []string{"error", "kind", "request_id", "timestamp"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			for _, key := range tt.expectedKeys {
				assert.Contains(t, body, key)
			}
		})
	}

	t.Run("GET /weight rows", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/weight", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var rows []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
		require.Len(t, rows, 1)
		for _, key := range []string{"id", "session", "direction", "truck", "neto", "produce", "containers", "timestamp"} {
			assert.Contains(t, rows[0], key)
		}
	})

	t.Run("GET /unknown is a bare array", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/unknown", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var ids []string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ids))
		assert.Equal(t, []string{"C-35434"}, ids)
	})

	t.Run("GET /health is plain text", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failure", w.Body.String())
	})
}

var fixedContractNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
