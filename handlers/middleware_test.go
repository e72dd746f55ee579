package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestRecoverPanicsKeepsStartedResponse(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	handler := recoverPanics(log, http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		res.WriteHeader(http.StatusAccepted)
		res.Write([]byte("partial"))
		panic("late failure")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
	assert.Equal(t, "handler panicked", hook.LastEntry().Message)
}

func TestRecoverPanicsWritesInternalError(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	handler := recoverPanics(log, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("early failure")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

func TestLogRequestsRecordsFirstStatus(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	handler := logRequests(log, http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		res.WriteHeader(http.StatusNotFound)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/tasks/9", nil))

	entry := hook.LastEntry()
	assert.Equal(t, http.StatusNotFound, entry.Data["status"])
	assert.Equal(t, "/tasks/9", entry.Data["path"])
}
