package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errMissing  = errors.New("missing")
	errConflict = errors.New("conflict")
)

func demoBindings() []ErrorStatus {
	return []ErrorStatus{
		{Err: errMissing, Status: http.StatusNotFound, Message: "Resource not found"},
		{Err: errConflict, Status: http.StatusConflict, Message: "Resource conflict"},
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestFromErrorUsesBinding(t *testing.T) {
	rec := httptest.NewRecorder()
	FromError(rec, errConflict, "fallback", demoBindings())

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.False(t, body.Success)
	assert.Equal(t, "Resource conflict", body.Message)
}

func TestFromErrorMatchesWrappedErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	FromError(rec, fmt.Errorf("loading record: %w", errMissing), "fallback", demoBindings())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Resource not found", decodeBody(t, rec).Message)
}

func TestFromErrorUnknownFallsBackToInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	FromError(rec, errors.New("driver exploded"), "Failed to load resource", demoBindings())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to load resource", decodeBody(t, rec).Message)
	// Internal error text never reaches the client
	assert.NotContains(t, rec.Body.String(), "driver exploded")
}

func TestConflictDefaultsMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	Conflict(rec, "")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Conflict", decodeBody(t, rec).Message)
}
