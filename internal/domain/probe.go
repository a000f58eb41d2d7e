package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// TLSStatus is the outcome of the TLS layer of a domain probe.
type TLSStatus string

const (
	TLSStatusOK     TLSStatus = "OK"
	TLSStatusFailed TLSStatus = "FAILED"
	TLSStatusError  TLSStatus = "ERROR"
)

// Availability reports whether a probed domain answered with 200.
type Availability string

const (
	Available   Availability = "AVAILABLE"
	Unavailable Availability = "UNAVAILABLE"
)

// HTTPStatus is a response status code. The zero value means no response
// was received and is encoded as "N/A".
type HTTPStatus int

// StatusNotApplicable marks a probe that never got an HTTP response.
const StatusNotApplicable HTTPStatus = 0

const notApplicable = "N/A"

// Applicable reports whether a response status was recorded.
func (s HTTPStatus) Applicable() bool {
	return s != StatusNotApplicable
}

func (s HTTPStatus) String() string {
	if !s.Applicable() {
		return notApplicable
	}
	return strconv.Itoa(int(s))
}

// MarshalJSON encodes the status as a number, or "N/A" when not applicable.
func (s HTTPStatus) MarshalJSON() ([]byte, error) {
	if !s.Applicable() {
		return json.Marshal(notApplicable)
	}
	return json.Marshal(int(s))
}

// UnmarshalJSON accepts a number or the "N/A" string.
func (s *HTTPStatus) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		if str == notApplicable || str == "" {
			*s = StatusNotApplicable
			return nil
		}
		n, err := strconv.Atoi(str)
		if err != nil {
			return fmt.Errorf("invalid http status %q", str)
		}
		*s = HTTPStatus(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid http status: %w", err)
	}
	*s = HTTPStatus(n)
	return nil
}

// ProbeResult is the classified outcome of probing a single domain.
type ProbeResult struct {
	Domain       string       `json:"domain"`
	TLSStatus    TLSStatus    `json:"tls_status"`
	HTTPStatus   HTTPStatus   `json:"http_status"`
	Availability Availability `json:"availability"`
}
