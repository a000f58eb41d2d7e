// Package api provides the HTTP handlers of the task/user store and the domain prober.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mikhailyemets/todoplash/internal/domain"
	"github.com/mikhailyemets/todoplash/internal/middleware"
	"github.com/mikhailyemets/todoplash/internal/store"
)

const maxBodyBytes = 1 << 20

// Prober probes a batch of domains.
type Prober interface {
	Probe(ctx context.Context, domains []string) []domain.ProbeResult
}

// Handler serves the store and probe endpoints.
type Handler struct {
	repo            store.Repository
	prober          Prober
	searchRateLimit int
}

// NewHandler creates a new Handler. searchRateLimit is the number of
// /search-domains requests allowed per IP per minute; zero disables the limit.
func NewHandler(repo store.Repository, prober Prober, searchRateLimit int) *Handler {
	return &Handler{
		repo:            repo,
		prober:          prober,
		searchRateLimit: searchRateLimit,
	}
}

// RegisterRoutes registers task, user and domain routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/create-todo", h.CreateTask)
	r.Get("/get-todo", h.GetTask)
	r.Get("/get-all-todo", h.ListTasks)
	r.Put("/update-todo", h.UpdateTask)
	r.Patch("/update-todo", h.UpdateTask)
	r.Delete("/delete-todo", h.DeleteTask)
	r.Delete("/delete-all-todo", h.DeleteAllTasks)

	r.Get("/get-users", h.ListUsers)
	r.Post("/add-user", h.AddUser)
	r.Delete("/delete-user", h.DeleteUser)
	r.Put("/edit-user", h.EditUser)
	r.Patch("/edit-user", h.EditUser)

	search := r
	if h.searchRateLimit > 0 {
		search = r.With(middleware.RateLimit(middleware.RateLimitConfig{
			RequestLimit: h.searchRateLimit,
			WindowSize:   time.Minute,
		}))
	}
	search.Post("/search-domains", h.SearchDomains)
}

// RegisterHealth registers a readiness endpoint that pings the database.
func (h *Handler) RegisterHealth(r chi.Router) {
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.repo.Ping(ctx); err != nil {
			Error(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		JSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// decodeBody decodes a JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// flexID accepts an identifier sent either as a JSON number or a string.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a number or string: %w", err)
	}
	*f = flexID(n.String())
	return nil
}

var errInvalidID = errors.New("invalid id")

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}
