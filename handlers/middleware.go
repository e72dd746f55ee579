package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"TaskWebService/response"
)

// RequestIDHeader carries the id assigned to each request.
const RequestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

// logRequests logs one line per request with its id, status and duration.
// A client supplied request id is kept, otherwise a new one is generated.
func logRequests(log logrus.FieldLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		requestID := req.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		res.Header().Set(RequestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: res, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, req)

		log.WithFields(logrus.Fields{
			"request id": requestID,
			"method":     req.Method,
			"path":       req.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start).String(),
		}).Info("request handled")
	})
}

// recoverPanics turns a panic in a handler into a 500 so a single request
// cannot take the process down. If the handler already started its response
// the 500 cannot be sent and only the log line is kept.
func recoverPanics(log logrus.FieldLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		rec := &statusRecorder{ResponseWriter: res, status: http.StatusOK}
		defer func() {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler {
					panic(p)
				}
				log.WithFields(logrus.Fields{
					"request": req.Method + " " + req.URL.Path,
					"panic":   p,
				}).Error("handler panicked")
				if !rec.wroteHeader {
					response.Error(rec, http.StatusInternalServerError, "Internal server error")
				}
			}
		}()
		next.ServeHTTP(rec, req)
	})
}
