package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"voicescribe/internal/api/middleware"
	"voicescribe/internal/api/v1/routes"
)

const testUploadLimit = 1 << 20

type filePart struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func setupTestRouter(t *testing.T) (*gin.Engine, *MockServices) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())

	mockServices := NewMockServices(t)
	routes.RegisterRoutes(router.Group("/api"), &routes.ServiceContainer{
		TranscriptionService: mockServices.TranscriptionService,
		HistoryService:       mockServices.HistoryService,
		ExportService:        mockServices.ExportService,
	}, testUploadLimit)
	return router, mockServices
}

func multipartBody(t *testing.T, parts ...filePart) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.field, p.filename))
		h.Set("Content-Type", p.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.WriteField("note", "ignored"))
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func decodeObject(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}
