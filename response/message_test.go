package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, Error(rec, http.StatusBadRequest, "Invalid request body"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var msg Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	assert.Equal(t, Message{Status: StatusFailed, Body: "Invalid request body"}, msg)
}

func TestText(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, Text(rec, http.StatusOK, "Server is running"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Server is running", rec.Body.String())
}
