package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mikhailyemets/todoplash/internal/probe"
)

// SearchDomains probes {"domains"}, given as newline-delimited text or a list.
func (h *Handler) SearchDomains(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Domains json.RawMessage `json:"domains"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	in, err := probe.ParseInput(req.Domains)
	switch {
	case errors.Is(err, probe.ErrNoDomains):
		Error(w, http.StatusBadRequest, "No domains provided")
		return
	case err != nil:
		Error(w, http.StatusBadRequest, "Invalid input format")
		return
	}

	domains := in.Domains()
	results := h.prober.Probe(r.Context(), domains)

	slog.Info("Domains probed", "count", len(domains))
	JSON(w, http.StatusOK, map[string]interface{}{"results": results})
}
