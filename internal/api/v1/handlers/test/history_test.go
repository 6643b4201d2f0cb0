package test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"voicescribe/internal/api/middleware"
	"voicescribe/internal/api/v1/dto"
	"voicescribe/internal/api/v1/handlers"
	"voicescribe/internal/app/converter/export"
)

func TestHistoryHandler_List(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []dto.TranscriptResponse{
		{ID: 2, Text: "newer", CreatedAt: at.Add(time.Minute)},
		{ID: 1, Text: "older", CreatedAt: at},
	}

	tests := []struct {
		name           string
		query          string
		setupMocks     func(*MockServices)
		expectedStatus int
		validate       func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:  "default limit",
			query: "",
			setupMocks: func(ms *MockServices) {
				ms.HistoryService.On("List", mock.Anything, 0).Return(entries, nil)
			},
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var got []dto.TranscriptResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				require.Len(t, got, 2)
				assert.Equal(t, int64(2), got[0].ID)
				assert.Equal(t, "2", rec.Header().Get("X-Total-Count"))
				assert.Contains(t, rec.Body.String(), `"createdAt":"2025-03-01T10:01:00Z"`)
			},
		},
		{
			name:  "explicit limit",
			query: "?limit=1",
			setupMocks: func(ms *MockServices) {
				ms.HistoryService.On("List", mock.Anything, 1).Return(entries[:1], nil)
			},
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "1", rec.Header().Get("X-Total-Count"))
			},
		},
		{
			name:  "empty history is an empty array",
			query: "",
			setupMocks: func(ms *MockServices) {
				ms.HistoryService.On("List", mock.Anything, 0).Return([]dto.TranscriptResponse{}, nil)
			},
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "[]", rec.Body.String())
			},
		},
		{
			name:           "limit above maximum",
			query:          "?limit=1001",
			setupMocks:     func(ms *MockServices) {},
			expectedStatus: http.StatusBadRequest,
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				body := decodeObject(t, rec)
				assert.Equal(t, "validation", body["kind"])
				details := body["details"].(map[string]interface{})
				assert.Equal(t, "must be at most 1000", details["limit"])
			},
		},
		{
			name:           "limit not a number",
			query:          "?limit=abc",
			setupMocks:     func(ms *MockServices) {},
			expectedStatus: http.StatusBadRequest,
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, "validation", decodeObject(t, rec)["kind"])
			},
		},
		{
			name:  "store failure",
			query: "",
			setupMocks: func(ms *MockServices) {
				ms.HistoryService.On("List", mock.Anything, 0).Return(nil, errors.New("database is locked"))
			},
			expectedStatus: http.StatusInternalServerError,
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				body := decodeObject(t, rec)
				assert.Equal(t, "internal", body["kind"])
				assert.NotContains(t, rec.Body.String(), "database is locked")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockServices := setupTestRouter(t)
			tt.setupMocks(mockServices)

			req := httptest.NewRequest(http.MethodGet, "/api/history"+tt.query, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			tt.validate(t, rec)
		})
	}
}

func TestExportHandler_Export(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMocks     func(*MockServices)
		expectedStatus int
		contentType    string
	}{
		{
			name:  "csv by default",
			query: "",
			setupMocks: func(ms *MockServices) {
				ms.ExportService.On("Export", mock.Anything, export.FormatCSV, 0).Return("ID,Created At,Transcript\n", nil)
			},
			expectedStatus: http.StatusOK,
			contentType:    "text/csv; charset=utf-8",
		},
		{
			name:  "xlsx with limit",
			query: "?format=xlsx&limit=10",
			setupMocks: func(ms *MockServices) {
				ms.ExportService.On("Export", mock.Anything, export.FormatXLSX, 10).Return("PK", nil)
			},
			expectedStatus: http.StatusOK,
			contentType:    export.FormatXLSX.ContentType(),
		},
		{
			name:           "unknown format",
			query:          "?format=pdf",
			setupMocks:     func(ms *MockServices) {},
			expectedStatus: http.StatusBadRequest,
			contentType:    "application/json; charset=utf-8",
		},
		{
			name:  "export failure answers with an error status",
			query: "?format=json",
			setupMocks: func(ms *MockServices) {
				ms.ExportService.On("Export", mock.Anything, export.FormatJSON, 0).Return("[", errors.New("connection reset"))
			},
			expectedStatus: http.StatusInternalServerError,
			contentType:    "application/json; charset=utf-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockServices := setupTestRouter(t)
			tt.setupMocks(mockServices)

			req := httptest.NewRequest(http.MethodGet, "/api/history/export"+tt.query, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			if tt.expectedStatus == http.StatusOK {
				assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=\"transcripts-")
			}
		})
	}
}

func TestHealthHandler_Check(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("healthy", func(t *testing.T) {
		history := NewMockHistoryService(t)
		history.On("Ping", mock.Anything).Return(nil)

		router := gin.New()
		router.GET("/health", handlers.NewHealthHandler(history).Check)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeObject(t, rec)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "ok", body["store"])
	})

	t.Run("store down", func(t *testing.T) {
		history := NewMockHistoryService(t)
		history.On("Ping", mock.Anything).Return(errors.New("dial tcp: connection refused"))

		router := gin.New()
		router.Use(middleware.RequestID())
		router.GET("/health", handlers.NewHealthHandler(history).Check)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "service_unavailable", decodeObject(t, rec)["kind"])
	})
}
