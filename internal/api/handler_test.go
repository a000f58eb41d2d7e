//nolint:revive // "api" package name is intentionally concise for this layer.
package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"foo": "bar"}

	JSON(w, http.StatusOK, data)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if got["foo"] != "bar" {
		t.Errorf("Expected foo=bar, got %v", got["foo"])
	}
}

func TestFlexID(t *testing.T) {
	var req taskRequest
	for _, body := range []string{`{"id": 3}`, `{"id": "3"}`} {
		if err := json.Unmarshal([]byte(body), &req); err != nil {
			t.Fatalf("decode %s: %v", body, err)
		}
		if req.ID != "3" {
			t.Errorf("decode %s: expected id 3, got %q", body, req.ID)
		}
	}
	if err := json.Unmarshal([]byte(`{"id": true}`), &req); err == nil {
		t.Error("expected boolean id to be rejected")
	}
}
