package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/PeteerDHeras/proyectoFinal/internal/application"
	"github.com/PeteerDHeras/proyectoFinal/internal/view"
)

type taskService interface {
	Create(ctx context.Context, params application.CreateTaskParams) (application.Task, error)
	Update(ctx context.Context, params application.UpdateTaskParams) (application.Task, error)
	SetState(ctx context.Context, principal application.Principal, taskID int64, state int) (application.Task, error)
	Get(ctx context.Context, principal application.Principal, taskID int64) (application.Task, error)
	List(ctx context.Context, principal application.Principal, filter application.TaskFilter) ([]application.Task, error)
	Delete(ctx context.Context, principal application.Principal, taskID int64) error
}

// TaskHandler serves the task CRUD endpoints and the completion toggle.
type TaskHandler struct {
	service   taskService
	responder responder
	logger    *slog.Logger
}

// NewTaskHandler wires the task endpoints.
func NewTaskHandler(service taskService, logger *slog.Logger) *TaskHandler {
	base := defaultLogger(logger)
	return &TaskHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *TaskHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "TaskHandler", operation, attrs...)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode task request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.UserID)

	task, err := h.service.Create(r.Context(), application.CreateTaskParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "task creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("task_id", task.ID).InfoContext(r.Context(), "task created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, taskResponse{Task: view.NewTaskView(task).Detail()})
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	taskID, ok := TaskIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTaskID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	task, err := h.service.Get(r.Context(), principal, taskID)
	if err != nil {
		h.log(r.Context(), "Get", "task_id", taskID).ErrorContext(r.Context(), "task lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, taskResponse{Task: view.NewTaskView(task).Detail()})
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	query := r.URL.Query()

	filter := application.TaskFilter{
		OnDate: query.Get("date"),
		From:   query.Get("from"),
		To:     query.Get("to"),
	}
	switch query.Get("state") {
	case "pending":
		state := application.TaskPending
		filter.State = &state
	case "completed":
		state := application.TaskCompleted
		filter.State = &state
	}

	tasks, err := h.service.List(r.Context(), principal, filter)
	if err != nil {
		h.log(r.Context(), "List", "principal_id", principal.UserID).ErrorContext(r.Context(), "task listing failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	details := make([]view.TaskDetail, 0, len(tasks))
	for _, task := range tasks {
		details = append(details, view.NewTaskView(task).Detail())
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, taskListResponse{Tasks: details})
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	taskID, ok := TaskIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTaskID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "task_id", taskID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode task update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.UserID, "task_id", taskID)

	task, err := h.service.Update(r.Context(), application.UpdateTaskParams{
		Principal: principal,
		TaskID:    taskID,
		Input:     req.toInput(),
		State:     req.State,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "task update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "task updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, taskResponse{Task: view.NewTaskView(task).Detail()})
}

// SetState flips a task between pending and completed; the dashboard
// checkbox posts here.
func (h *TaskHandler) SetState(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	taskID, ok := TaskIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTaskID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req taskStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "SetState", "task_id", taskID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode state change", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "SetState", "principal_id", principal.UserID, "task_id", taskID, "state", req.State)

	task, err := h.service.SetState(r.Context(), principal, taskID, req.State)
	if err != nil {
		logger.ErrorContext(r.Context(), "task state change failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "task state changed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, taskResponse{Task: view.NewTaskView(task).Detail()})
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	taskID, ok := TaskIDFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTaskID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.UserID, "task_id", taskID)

	if err := h.service.Delete(r.Context(), principal, taskID); err != nil {
		logger.ErrorContext(r.Context(), "task deletion failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "task deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type taskRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	DueTime     string `json:"due_time"`
	Priority    int    `json:"priority"`
	State       int    `json:"state"`
}

func (r taskRequest) toInput() application.TaskInput {
	return application.TaskInput{
		Name:        r.Name,
		Description: r.Description,
		DueDate:     r.DueDate,
		DueTime:     r.DueTime,
		Priority:    r.Priority,
	}
}

type taskStateRequest struct {
	State int `json:"state"`
}

type taskResponse struct {
	Task view.TaskDetail `json:"task"`
}

type taskListResponse struct {
	Tasks []view.TaskDetail `json:"tasks"`
}
