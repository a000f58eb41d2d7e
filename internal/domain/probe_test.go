package domain

import (
	"encoding/json"
	"testing"
)

func TestHTTPStatusJSON(t *testing.T) {
	res := ProbeResult{Domain: "https://example.com", TLSStatus: TLSStatusError, Availability: Unavailable}
	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"domain":"https://example.com","tls_status":"ERROR","http_status":"N/A","availability":"UNAVAILABLE"}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}

	var decoded ProbeResult
	if err := json.Unmarshal([]byte(`{"http_status":404}`), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.HTTPStatus != 404 || decoded.HTTPStatus.String() != "404" {
		t.Errorf("expected 404, got %v", decoded.HTTPStatus)
	}

	if err := json.Unmarshal([]byte(`{"http_status":"N/A"}`), &decoded); err != nil {
		t.Fatalf("unmarshal N/A: %v", err)
	}
	if decoded.HTTPStatus.Applicable() {
		t.Errorf("expected not applicable, got %v", decoded.HTTPStatus)
	}
}
