package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jaekwang-park/taskdeck/internal/model"
	"github.com/jaekwang-park/taskdeck/internal/service"
)

type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// ServeHTTP routes /api/v1/tasks and /api/v1/tasks/{id}
func (h *TaskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/tasks")
	path = strings.TrimPrefix(path, "/")

	parts := strings.SplitN(path, "/", 2)
	taskID := parts[0]
	subPath := ""
	if len(parts) > 1 {
		subPath = parts[1]
	}

	// /api/v1/tasks/{id}/status
	if taskID != "" && subPath == "status" {
		h.handleUpdateStatus(w, r, taskID)
		return
	}

	// /api/v1/tasks/{id}
	if taskID != "" {
		switch r.Method {
		case http.MethodGet:
			h.handleGetByID(w, r, taskID)
		case http.MethodPut:
			h.handleUpdate(w, r, taskID)
		case http.MethodDelete:
			h.handleDelete(w, r, taskID)
		default:
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		}
		return
	}

	// /api/v1/tasks
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	}
}

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	DueAt       *string `json:"due_at,omitempty"`
}

func (h *TaskHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	// Missing status falls back to the form default.
	status := model.Status(req.Status)
	if req.Status == "" {
		status = model.StatusTodo
	}

	task, err := h.svc.Create(r.Context(), service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		DueAt:       req.DueAt,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) handleGetByID(w http.ResponseWriter, r *http.Request, taskID string) {
	task, err := h.svc.GetByID(r.Context(), taskID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if task == nil {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "task not found")
		return
	}

	WriteJSON(w, http.StatusOK, task)
}

type updateTaskRequest struct {
	Description *string `json:"description,omitempty"`
	DueAt       *string `json:"due_at,omitempty"`
}

func (h *TaskHandler) handleUpdate(w http.ResponseWriter, r *http.Request, taskID string) {
	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	task, err := h.svc.Update(r.Context(), taskID, service.UpdateTaskInput{
		Description: req.Description,
		DueAt:       req.DueAt,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) handleDelete(w http.ResponseWriter, r *http.Request, taskID string) {
	if err := h.svc.Delete(r.Context(), taskID); err != nil {
		WriteServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *TaskHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request, taskID string) {
	if r.Method != http.MethodPatch {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	task, err := h.svc.UpdateStatus(r.Context(), taskID, model.Status(req.Status))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, task)
}

type taskListResponse struct {
	Tasks []model.Task `json:"tasks"`
}

func (h *TaskHandler) handleList(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.svc.List(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	WriteJSON(w, http.StatusOK, taskListResponse{Tasks: tasks})
}
