package api

import (
	"errors"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/mikhailyemets/todoplash/internal/store"
)

const (
	maxTelegramIDLen = 20
	maxGroupLen      = 50
)

type userRequest struct {
	TelegramID flexID `json:"telegram_id"`
	Group      string `json:"group"`
}

func (u userRequest) tooLong() bool {
	return utf8.RuneCountInString(string(u.TelegramID)) > maxTelegramIDLen ||
		utf8.RuneCountInString(u.Group) > maxGroupLen
}

// ListUsers returns every registered user.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.repo.ListUsers(r.Context())
	if err != nil {
		slog.Error("Failed to list users", "error", err)
		Error(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// AddUser registers {"telegram_id", "group"}. A taken telegram_id is a 400.
func (h *Handler) AddUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeBody(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.TelegramID == "" || req.Group == "" {
		Error(w, http.StatusBadRequest, "telegram_id and group are required")
		return
	}
	if req.tooLong() {
		Error(w, http.StatusBadRequest, "telegram_id or group is too long")
		return
	}

	user, err := h.repo.AddUser(r.Context(), string(req.TelegramID), req.Group)
	if errors.Is(err, store.ErrDuplicate) {
		Error(w, http.StatusBadRequest, "User already exists")
		return
	}
	if err != nil {
		slog.Error("Failed to add user", "error", err, "telegram_id", req.TelegramID)
		Error(w, http.StatusInternalServerError, "failed to add user")
		return
	}

	slog.Info("User added", "telegram_id", user.TelegramID, "group", user.Group)
	JSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User added successfully",
		"user":    user,
	})
}

// DeleteUser removes {"telegram_id"}.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeBody(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.TelegramID == "" {
		Error(w, http.StatusBadRequest, "telegram_id is required")
		return
	}

	err := h.repo.DeleteUser(r.Context(), string(req.TelegramID))
	if errors.Is(err, store.ErrNotFound) {
		Error(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("Failed to delete user", "error", err, "telegram_id", req.TelegramID)
		Error(w, http.StatusInternalServerError, "failed to delete user")
		return
	}

	slog.Info("User deleted", "telegram_id", req.TelegramID)
	JSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// EditUser moves {"telegram_id"} to a new {"group"}.
func (h *Handler) EditUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeBody(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.TelegramID == "" || req.Group == "" {
		Error(w, http.StatusBadRequest, "telegram_id and new group are required")
		return
	}
	if req.tooLong() {
		Error(w, http.StatusBadRequest, "telegram_id or group is too long")
		return
	}

	user, err := h.repo.EditUser(r.Context(), string(req.TelegramID), req.Group)
	if errors.Is(err, store.ErrNotFound) {
		Error(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("Failed to edit user", "error", err, "telegram_id", req.TelegramID)
		Error(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	slog.Info("User updated", "telegram_id", user.TelegramID, "group", user.Group)
	JSON(w, http.StatusOK, map[string]interface{}{
		"message": "User updated successfully",
		"user":    user,
	})
}
