// Package handlers provides the HTTP request handlers for TaskWebService.
//
// This package contains one handler per endpoint: a health check and the CRUD
// operations over tasks. Each handler decodes and validates the request,
// calls the task store and maps the result or error to an HTTP response.
// Store failures are logged with full detail and reported to the client as a
// generic message only.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"TaskWebService/commands"
	"TaskWebService/response"
	"TaskWebService/store"
	"TaskWebService/validation"
)

const (
	healthMessage   = "Server is running"
	databaseError   = "Database error"
	invalidBody     = "Invalid request body"
	invalidTaskID   = "Invalid task ID"
	taskNotFoundMsg = "Task not found"

	// maxBodyBytes caps request bodies.
	maxBodyBytes = 2 << 20
)

// TaskHandler serves the task endpoints. The store is shared by every
// request; each call borrows one connection for a single statement.
type TaskHandler struct {
	store    store.TaskStore
	log      logrus.FieldLogger
	metrics  *Metrics
	validate *validator.Validate
}

// New returns a TaskHandler backed by the given store.
func New(taskStore store.TaskStore, log logrus.FieldLogger, metrics *Metrics) *TaskHandler {
	return &TaskHandler{
		store:    taskStore,
		log:      log,
		metrics:  metrics,
		validate: validation.New(),
	}
}

// Routes registers every endpoint on a new mux and wraps it with request
// logging and panic recovery.
func (h *TaskHandler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health_check", h.HealthCheck)
	mux.HandleFunc("GET /tasks", h.ListTasks)
	mux.HandleFunc("POST /tasks", h.CreateTask)
	mux.HandleFunc("PUT /tasks/{id}", h.UpdateTask)
	mux.HandleFunc("DELETE /tasks/{id}", h.DeleteTask)
	return logRequests(h.log, recoverPanics(h.log, mux))
}

// HealthCheck always answers 200 with a static body. It does not touch the database.
func (h *TaskHandler) HealthCheck(res http.ResponseWriter, req *http.Request) {
	h.metrics.Requests.WithLabelValues("GET /health_check").Inc()
	response.Text(res, http.StatusOK, healthMessage)
}

// ListTasks handles the HTTP request for retrieving all tasks.
// The order of the tasks is not defined. An empty table yields an empty array.
//
// Example request:
// GET /tasks
//
// Example response:
//
//	[
//	  {"id": 1, "title": "Buy milk", "description": null, "completed": true}
//	]
func (h *TaskHandler) ListTasks(res http.ResponseWriter, req *http.Request) {
	const endpoint = "GET /tasks"
	h.metrics.Requests.WithLabelValues(endpoint).Inc()

	tasks, err := h.store.ListAll(req.Context())
	if err != nil {
		h.fail(res, endpoint, "get all tasks", http.StatusInternalServerError, databaseError, err)
		return
	}
	response.JSON(res, http.StatusOK, tasks)
}

// CreateTask handles the HTTP request for creating a new task.
// The title is required, the description is optional. Only the structure of
// the body is validated, so an empty title is accepted.
//
// Example request body:
//
//	{"title": "Buy milk", "description": "2 litres"}
//
// Example response (201):
//
//	{"id": 1, "title": "Buy milk", "description": "2 litres", "completed": null}
func (h *TaskHandler) CreateTask(res http.ResponseWriter, req *http.Request) {
	const endpoint = "POST /tasks"
	h.metrics.Requests.WithLabelValues(endpoint).Inc()

	var cmd commands.CreateTaskCommand
	if err := decodeBody(res, req, &cmd); err != nil {
		h.fail(res, endpoint, "create a task", http.StatusBadRequest, invalidBody, err)
		return
	}
	if err := h.validate.Struct(cmd); err != nil {
		h.log.WithFields(logrus.Fields{
			"task operation": "create a task",
			"request":        endpoint,
			"fields":         validation.FailedFields(err),
		}).Warn("invalid request body inputs")
		h.metrics.Errors.WithLabelValues(endpoint).Inc()
		response.Error(res, http.StatusBadRequest, invalidBody)
		return
	}

	task, err := h.store.Create(req.Context(), *cmd.Title, cmd.Description)
	if err != nil {
		h.fail(res, endpoint, "create a task", http.StatusInternalServerError, databaseError, err)
		return
	}
	h.log.WithFields(logrus.Fields{
		"task operation": "create a task",
		"request":        endpoint,
		"task id":        task.Id,
	}).Debug("task created")
	response.JSON(res, http.StatusCreated, task)
}

// UpdateTask handles the HTTP request for updating a task.
// The body is a partial patch: every field that is present overwrites the
// stored value, every field that is missing keeps it. An empty body object
// changes nothing but still succeeds for an existing task.
//
// Example request:
// PUT /tasks/1
//
//	{"completed": true}
//
// Example response (200):
//
//	{"id": 1, "title": "Buy milk", "description": null, "completed": true}
//
// An id that matches no task answers 404.
func (h *TaskHandler) UpdateTask(res http.ResponseWriter, req *http.Request) {
	const endpoint = "PUT /tasks/{id}"
	h.metrics.Requests.WithLabelValues(endpoint).Inc()

	id, err := taskID(req)
	if err != nil {
		h.fail(res, endpoint, "update a task", http.StatusBadRequest, invalidTaskID, err)
		return
	}
	var patch commands.UpdateTaskCommand
	if err := decodeBody(res, req, &patch); err != nil {
		h.fail(res, endpoint, "update a task", http.StatusBadRequest, invalidBody, err)
		return
	}

	task, err := h.store.Update(req.Context(), id, patch)
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.fail(res, endpoint, "update a task", http.StatusNotFound, taskNotFoundMsg, err)
		return
	case err != nil:
		h.fail(res, endpoint, "update a task", http.StatusInternalServerError, databaseError, err)
		return
	}
	response.JSON(res, http.StatusOK, task)
}

// DeleteTask handles the HTTP request for deleting a task.
// It answers 204 with no body when a task was removed and 404 when no task
// has the id.
//
// Example request:
// DELETE /tasks/1
func (h *TaskHandler) DeleteTask(res http.ResponseWriter, req *http.Request) {
	const endpoint = "DELETE /tasks/{id}"
	h.metrics.Requests.WithLabelValues(endpoint).Inc()

	id, err := taskID(req)
	if err != nil {
		h.fail(res, endpoint, "delete a task", http.StatusBadRequest, invalidTaskID, err)
		return
	}

	deleted, err := h.store.Delete(req.Context(), id)
	if err != nil {
		h.fail(res, endpoint, "delete a task", http.StatusInternalServerError, databaseError, err)
		return
	}
	if !deleted {
		h.metrics.Errors.WithLabelValues(endpoint).Inc()
		res.WriteHeader(http.StatusNotFound)
		return
	}
	res.WriteHeader(http.StatusNoContent)
}

// taskID parses the id path value. Ids are 32-bit in the tasks table, so
// anything outside that range is rejected here rather than by the database.
func taskID(req *http.Request) (int64, error) {
	return strconv.ParseInt(req.PathValue("id"), 10, 32)
}

// decodeBody decodes a single JSON value from a size limited body.
func decodeBody(res http.ResponseWriter, req *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(res, req.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("unexpected data after the JSON body")
	}
	return nil
}

// fail logs err and answers with status and the client safe message.
func (h *TaskHandler) fail(res http.ResponseWriter, endpoint, operation string, status int, message string, err error) {
	h.metrics.Errors.WithLabelValues(endpoint).Inc()
	entry := h.log.WithFields(logrus.Fields{
		"task operation": operation,
		"request":        endpoint,
		"error":          err.Error(),
	})
	if status >= http.StatusInternalServerError {
		entry.Error(message)
	} else {
		entry.Warn(message)
	}
	response.Error(res, status, message)
}
