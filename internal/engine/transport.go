package engine

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/net/publicsuffix"
)

var (
	ErrRequestBudgetExceeded = errors.New("request budget exceeded")
	ErrCrossDomainBlocked    = errors.New("blocked cross-domain request")
)

// RequestBudgetTransport limits total outgoing requests for one run.
type RequestBudgetTransport struct {
	Base      http.RoundTripper
	Max       int64
	requested int64
}

func (t *RequestBudgetTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	next := atomic.AddInt64(&t.requested, 1)
	if t.Max > 0 && next > t.Max {
		return nil, fmt.Errorf("%w (%d requests)", ErrRequestBudgetExceeded, t.Max)
	}
	return baseOrDefault(t.Base).RoundTrip(req)
}

// DomainBoundaryTransport blocks requests whose host falls outside the
// allowed registrable domains.
type DomainBoundaryTransport struct {
	Base               http.RoundTripper
	AllowedRootDomains []string
}

func (t *DomainBoundaryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	host := strings.ToLower(req.URL.Hostname())
	if host == "" {
		return nil, fmt.Errorf("blocked request: empty host")
	}
	if len(t.AllowedRootDomains) > 0 && !t.allowed(host) {
		return nil, fmt.Errorf("%w: %s (allowed roots: %s)", ErrCrossDomainBlocked, host, strings.Join(t.AllowedRootDomains, ", "))
	}
	return baseOrDefault(t.Base).RoundTrip(req)
}

func (t *DomainBoundaryTransport) allowed(host string) bool {
	root := RootDomain(host)
	for _, a := range t.AllowedRootDomains {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" {
			continue
		}
		if root == a || host == a || strings.HasSuffix(host, "."+a) {
			return true
		}
	}
	return false
}

// RootDomain returns the registrable domain (eTLD+1) of host, or host itself
// when it has none (IP literals, localhost).
func RootDomain(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" || net.ParseIP(host) != nil {
		return host
	}
	root, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return root
}

// MetricsTransport records request count, failures and cumulative duration.
type MetricsTransport struct {
	Base      http.RoundTripper
	requests  int64
	failures  int64
	durationN int64
}

type Metrics struct {
	Requests int64
	Failures int64
	Duration time.Duration
}

func (t *MetricsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := baseOrDefault(t.Base).RoundTrip(req)
	atomic.AddInt64(&t.requests, 1)
	if err != nil {
		atomic.AddInt64(&t.failures, 1)
	}
	atomic.AddInt64(&t.durationN, time.Since(start).Nanoseconds())
	return resp, err
}

func (t *MetricsTransport) Snapshot() Metrics {
	return Metrics{
		Requests: atomic.LoadInt64(&t.requests),
		Failures: atomic.LoadInt64(&t.failures),
		Duration: time.Duration(atomic.LoadInt64(&t.durationN)),
	}
}

func baseOrDefault(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		return http.DefaultTransport
	}
	return rt
}
