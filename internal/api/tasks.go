package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/mikhailyemets/todoplash/internal/store"
)

const maxDescriptionLen = 255

type taskRequest struct {
	ID          flexID `json:"id"`
	Description string `json:"description"`
}

// CreateTask creates a task from {"description"}.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decodeBody(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Description == "" {
		Error(w, http.StatusBadRequest, "Task description is required")
		return
	}
	if utf8.RuneCountInString(req.Description) > maxDescriptionLen {
		Error(w, http.StatusBadRequest, "Task description is too long")
		return
	}

	task, err := h.repo.CreateTask(r.Context(), req.Description)
	if err != nil {
		slog.Error("Failed to create task", "error", err)
		Error(w, http.StatusInternalServerError, "failed to create task")
		return
	}

	slog.Info("Task created", "task_id", task.ID)
	JSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Task has been created",
		"todo":    task,
	})
}

// GetTask returns the task named by the id query parameter.
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		Error(w, http.StatusBadRequest, "id is required")
		return
	}
	id, err := parseID(raw)
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.repo.GetTask(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		Error(w, http.StatusNotFound, "Not found")
		return
	}
	if err != nil {
		slog.Error("Failed to get task", "error", err, "task_id", id)
		Error(w, http.StatusInternalServerError, "failed to get task")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{"todo": task})
}

// ListTasks returns every task.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.repo.ListTasks(r.Context())
	if err != nil {
		slog.Error("Failed to list tasks", "error", err)
		Error(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"todos": tasks})
}

// UpdateTask replaces the description of {"id", "description"}.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decodeBody(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ID == "" || req.Description == "" {
		Error(w, http.StatusBadRequest, "You need to set id and fill in with new description")
		return
	}
	if utf8.RuneCountInString(req.Description) > maxDescriptionLen {
		Error(w, http.StatusBadRequest, "Task description is too long")
		return
	}
	id, err := parseID(string(req.ID))
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.repo.UpdateTask(r.Context(), id, req.Description)
	if errors.Is(err, store.ErrNotFound) {
		Error(w, http.StatusNotFound, "Not found")
		return
	}
	if err != nil {
		slog.Error("Failed to update task", "error", err, "task_id", id)
		Error(w, http.StatusInternalServerError, "failed to update task")
		return
	}

	slog.Info("Task updated", "task_id", id)
	JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Task has been updated",
		"todo":    task,
	})
}

// DeleteTask removes {"id"}.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decodeBody(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ID == "" {
		Error(w, http.StatusBadRequest, "id is required")
		return
	}
	id, err := parseID(string(req.ID))
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.repo.DeleteTask(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		Error(w, http.StatusNotFound, "Not found")
		return
	}
	if err != nil {
		slog.Error("Failed to delete task", "error", err, "task_id", id)
		Error(w, http.StatusInternalServerError, "failed to delete task")
		return
	}

	slog.Info("Task deleted", "task_id", id)
	JSON(w, http.StatusOK, map[string]string{"message": "Task has been deleted"})
}

// DeleteAllTasks removes every task and reports the count.
func (h *Handler) DeleteAllTasks(w http.ResponseWriter, r *http.Request) {
	n, err := h.repo.DeleteAllTasks(r.Context())
	if err != nil {
		slog.Error("Failed to delete all tasks", "error", err)
		Error(w, http.StatusInternalServerError, fmt.Sprintf("Failed to delete tasks: %v", err))
		return
	}

	slog.Info("All tasks deleted", "deleted", n)
	JSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Deleted %d tasks.", n),
		"deleted": n,
	})
}
