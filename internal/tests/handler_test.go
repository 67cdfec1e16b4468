package tests

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testapi/internal/store"
	"testapi/pkg/api"
	"testapi/pkg/logger"
)

type fakeFinder struct {
	row   *store.Test
	err   error
	calls []string
}

func (f *fakeFinder) FindByID(_ context.Context, id string) (*store.Test, error) {
	f.calls = append(f.calls, id)
	return f.row, f.err
}

type harness struct {
	engine *gin.Engine
	errs   []error
}

func newHarness(finder Finder) *harness {
	gin.SetMode(gin.TestMode)
	h := &harness{engine: gin.New()}
	h.engine.Use(func(c *gin.Context) {
		c.Next()
		for _, e := range c.Errors {
			h.errs = append(h.errs, e.Err)
		}
	})
	h.engine.Use(api.ErrorHandler(logger.Nop()), api.Recovery(), api.Envelope())
	NewHandler(finder).Register(h.engine.Group("/api/v1"))
	return h
}

func (h *harness) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestGetReturnsRecord(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	finder := &fakeFinder{row: &store.Test{ID: "uuid-123", Text: "Hello World", CreatedAt: now, UpdatedAt: now}}
	h := newHarness(finder)

	w := h.get("/api/v1/test/uuid-123")

	require.Equal(t, http.StatusOK, w.Code)
	var body api.SuccessEnvelope[store.Test]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusOK, body.StatusCode)
	assert.Equal(t, "uuid-123", body.Data.ID)
	assert.Equal(t, "Hello World", body.Data.Text)
	assert.True(t, now.Equal(body.Data.CreatedAt))
	assert.Equal(t, []string{"uuid-123"}, finder.calls)
	assert.Empty(t, h.errs)
}

func TestGetRecordUsesCamelCaseFields(t *testing.T) {
	finder := &fakeFinder{row: &store.Test{ID: "uuid-123", Text: "Hello World"}}
	w := newHarness(finder).get("/api/v1/test/uuid-123")

	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Data, "createdAt")
	assert.Contains(t, body.Data, "updatedAt")
}

func TestGetMissingIDIsBadRequest(t *testing.T) {
	finder := &fakeFinder{}
	h := newHarness(finder)

	w := h.get("/api/v1/test/")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"statusCode":400,"message":"Bad Request"}`, w.Body.String())
	assert.Empty(t, finder.calls)
	assert.Empty(t, h.errs)
}

func TestGetUnknownIDIsNotFound(t *testing.T) {
	finder := &fakeFinder{err: store.ErrNotFound}
	h := newHarness(finder)

	w := h.get("/api/v1/test/uuid-123")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"statusCode":404,"message":"Test with ID uuid-123 not found"}`, w.Body.String())
	assert.Equal(t, []string{"uuid-123"}, finder.calls)
	assert.Empty(t, h.errs)
}

func TestGetNilRowIsNotFound(t *testing.T) {
	w := newHarness(&fakeFinder{}).get("/api/v1/test/uuid-123")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetLookupFailureGoesToErrorHandler(t *testing.T) {
	dbErr := errors.New("Database error")
	finder := &fakeFinder{err: dbErr}
	h := newHarness(finder)

	w := h.get("/api/v1/test/uuid-123")

	require.Len(t, h.errs, 1)
	assert.Same(t, dbErr, h.errs[0])
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"statusCode":500,"message":"Database error"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), `"data"`)
}
