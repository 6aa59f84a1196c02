package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filedock/service/internal/errs"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestOK_MergesSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, Fields{"count": 2})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["count"])
}

func TestOK_SuccessCannotBeOverridden(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, Fields{"success": false})
	assert.Equal(t, true, decode(t, rec)["success"])
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	BadRequest(rec, "No keys provided")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "No keys provided", body["error"])
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", errs.New(errs.ErrKindNotFound, "stat"), http.StatusNotFound, "File not found"},
		{"invalid key", errs.New(errs.ErrKindInvalidInput, "key"), http.StatusBadRequest, "Invalid key"},
		{"io", errs.New(errs.ErrKindIO, "read"), http.StatusInternalServerError, "Failed to read file"},
		{"foreign", errors.New("boom"), http.StatusInternalServerError, "Failed to read file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			FromError(rec, tt.err, "Failed to read file")
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, decode(t, rec)["error"])
		})
	}
}
