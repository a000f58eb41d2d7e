// Package probe checks a batch of domains for HTTP reachability and TLS health.
package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mikhailyemets/todoplash/internal/domain"
	"github.com/mikhailyemets/todoplash/internal/metrics"
)

const (
	// DefaultTimeout bounds a single domain probe.
	DefaultTimeout = 5 * time.Second
	// DefaultWorkers is the number of probes in flight at once.
	DefaultWorkers = 8

	maxDrainBytes = 64 << 10
)

// Outcome tags how a probe call finished.
type Outcome int

const (
	// OutcomeOK means an HTTP response was received.
	OutcomeOK Outcome = iota
	// OutcomeTLSFailure means TLS negotiation or certificate verification failed.
	OutcomeTLSFailure
	// OutcomeTransportFailure covers timeouts, DNS, refused connections and the rest.
	OutcomeTransportFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeTLSFailure:
		return "tls_failure"
	default:
		return "transport_failure"
	}
}

// Doer sends an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Prober runs domain probes.
type Prober struct {
	client  Doer
	timeout time.Duration
	workers int
	logger  *slog.Logger
}

// Option configures a Prober.
type Option func(*Prober)

// WithClient replaces the HTTP client.
func WithClient(c Doer) Option {
	return func(p *Prober) {
		p.client = c
	}
}

// WithTimeout sets the per-domain deadline.
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithWorkers sets the fan-out limit.
func WithWorkers(n int) Option {
	return func(p *Prober) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Prober) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a Prober.
func New(opts ...Option) *Prober {
	p := &Prober{
		client:  &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()},
		timeout: DefaultTimeout,
		workers: DefaultWorkers,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe checks every domain and returns one result per input, in input order.
// A failing domain never affects the others.
func (p *Prober) Probe(ctx context.Context, domains []string) []domain.ProbeResult {
	results := make([]domain.ProbeResult, len(domains))

	// Plain Group: a failed probe must not cancel its siblings.
	var g errgroup.Group
	g.SetLimit(p.workers)
	for i, d := range domains {
		g.Go(func() error {
			results[i] = p.probeOne(ctx, d)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (p *Prober) probeOne(ctx context.Context, raw string) domain.ProbeResult {
	target := Normalize(raw)
	start := time.Now()

	outcome, status := p.check(ctx, target)
	res := Classify(target, outcome, status)

	metrics.RecordProbe(string(res.TLSStatus), time.Since(start))
	p.logger.Debug("Domain probed",
		"domain", target,
		"outcome", outcome.String(),
		"status", res.HTTPStatus.String(),
		"duration", time.Since(start),
	)
	return res
}

func (p *Prober) check(ctx context.Context, target string) (outcome Outcome, status int) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Domain probe panicked", "domain", target, "panic", fmt.Sprint(r))
			outcome, status = OutcomeTransportFailure, 0
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return OutcomeTransportFailure, 0
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return ClassifyError(err), 0
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
		_ = resp.Body.Close()
	}()

	return OutcomeOK, resp.StatusCode
}

// Normalize prepends https:// unless the domain already carries an http(s) scheme.
func Normalize(raw string) string {
	d := strings.TrimSpace(raw)
	lower := strings.ToLower(d)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return d
	}
	return "https://" + d
}

// Classify maps a probe outcome to its result shape.
func Classify(target string, outcome Outcome, status int) domain.ProbeResult {
	res := domain.ProbeResult{
		Domain:       target,
		HTTPStatus:   domain.StatusNotApplicable,
		Availability: domain.Unavailable,
	}
	switch outcome {
	case OutcomeOK:
		res.TLSStatus = domain.TLSStatusOK
		res.HTTPStatus = domain.HTTPStatus(status)
		if status == http.StatusOK {
			res.Availability = domain.Available
		}
	case OutcomeTLSFailure:
		res.TLSStatus = domain.TLSStatusFailed
	default:
		res.TLSStatus = domain.TLSStatusError
	}
	return res
}

// plaintextReply is what net/http reports when a TLS dial gets an HTTP answer.
const plaintextReply = "server gave HTTP response to HTTPS client"

// ClassifyError decides whether a transport error is a TLS failure.
// Timeouts are never TLS failures, even when they hit during the handshake.
func ClassifyError(err error) Outcome {
	if err == nil {
		return OutcomeOK
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return OutcomeTransportFailure
	}

	var (
		verifyErr    *tls.CertificateVerificationError
		recordErr    tls.RecordHeaderError
		alertErr     tls.AlertError
		authorityErr x509.UnknownAuthorityError
		hostnameErr  x509.HostnameError
		invalidErr   x509.CertificateInvalidError
	)
	switch {
	case errors.As(err, &verifyErr),
		errors.As(err, &recordErr),
		errors.As(err, &alertErr),
		errors.As(err, &authorityErr),
		errors.As(err, &hostnameErr),
		errors.As(err, &invalidErr):
		return OutcomeTLSFailure
	}

	// Handshake failures are often plain errors prefixed with "tls: ". A
	// plaintext answer on the TLS port surfaces as an http error instead.
	msg := err.Error()
	if strings.Contains(msg, "tls: ") || strings.Contains(msg, plaintextReply) {
		return OutcomeTLSFailure
	}
	return OutcomeTransportFailure
}
