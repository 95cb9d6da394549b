package issue

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	msges "github.com/MOYARU/cspissues/internal/messages"
)

var (
	ErrUnknownKind = errors.New("unknown issue kind")
	ErrMissingURL  = errors.New("issue URL is required")
)

// TypeExtension is the numeric issue type reported for extension-defined issues.
const TypeExtension = 0

// Kind selects which fixed text set an issue reports.
type Kind string

const (
	KindWildCardDirective        Kind = "CSP_WILDCARD_DIRECTIVE"
	KindUnsafeContentDirective   Kind = "CSP_UNSAFE_CONTENT"
	KindInsecureContentDirective Kind = "CSP_INSECURE_CONTENT"
	KindMissingDirective         Kind = "CSP_MISSING_DIRECTIVE"
	KindDeprecatedHeader         Kind = "CSP_DEPRECATED_HEADER"
)

var kindSlugs = map[string]Kind{
	"wildcard":   KindWildCardDirective,
	"unsafe":     KindUnsafeContentDirective,
	"insecure":   KindInsecureContentDirective,
	"missing":    KindMissingDirective,
	"deprecated": KindDeprecatedHeader,
}

// Kinds returns every kind in catalog order.
func Kinds() []Kind {
	return []Kind{
		KindWildCardDirective,
		KindUnsafeContentDirective,
		KindInsecureContentDirective,
		KindMissingDirective,
		KindDeprecatedHeader,
	}
}

// Slug is the short CLI name of the kind.
func (k Kind) Slug() string {
	for slug, kind := range kindSlugs {
		if kind == k {
			return slug
		}
	}
	return strings.ToLower(string(k))
}

func (k Kind) text() (msges.IssueText, bool) {
	return msges.GetIssueText(string(k))
}

func (k Kind) Valid() bool {
	_, ok := k.text()
	return ok
}

// ParseKind accepts a kind ID or its slug.
func ParseKind(v string) (Kind, error) {
	v = strings.TrimSpace(v)
	if k, ok := kindSlugs[strings.ToLower(v)]; ok {
		return k, nil
	}
	k := Kind(strings.ToUpper(v))
	if k.Valid() {
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, v)
}

// ScanIssue is the accessor set a reporting host reads from every issue.
type ScanIssue interface {
	URL() *url.URL
	Name() string
	Type() int
	Severity() Severity
	Confidence() Confidence
	Background() string
	RemediationBackground() string
	Detail() string
	RemediationDetail() string
	HTTPMessages() []RequestResponse
	HTTPService() Service
}

var _ ScanIssue = (*Issue)(nil)

// Issue is an immutable CSP weakness record.
type Issue struct {
	kind       Kind
	text       msges.IssueText
	url        url.URL
	service    Service
	messages   []RequestResponse
	severity   Severity
	confidence Confidence
}

// New builds an issue of the given kind. A zero service is derived from u.
func New(kind Kind, service Service, u *url.URL, severity Severity, confidence Confidence, messages ...RequestResponse) (*Issue, error) {
	text, ok := kind.text()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if u == nil {
		return nil, ErrMissingURL
	}
	if !severity.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeverity, severity)
	}
	if !confidence.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidConfidence, confidence)
	}
	if service.IsZero() {
		derived, err := ServiceFromURL(u)
		if err != nil {
			return nil, fmt.Errorf("failed to derive HTTP service: %w", err)
		}
		service = derived
	}

	msgs := make([]RequestResponse, 0, len(messages))
	for _, m := range messages {
		msgs = append(msgs, m.clone())
	}

	return &Issue{
		kind:       kind,
		text:       text,
		url:        cloneURL(u),
		service:    service,
		messages:   msgs,
		severity:   severity,
		confidence: confidence,
	}, nil
}

func NewWildCardDirective(service Service, u *url.URL, severity Severity, confidence Confidence, messages ...RequestResponse) (*Issue, error) {
	return New(KindWildCardDirective, service, u, severity, confidence, messages...)
}

func NewUnsafeContentDirective(service Service, u *url.URL, severity Severity, confidence Confidence, messages ...RequestResponse) (*Issue, error) {
	return New(KindUnsafeContentDirective, service, u, severity, confidence, messages...)
}

func NewInsecureContentDirective(service Service, u *url.URL, severity Severity, confidence Confidence, messages ...RequestResponse) (*Issue, error) {
	return New(KindInsecureContentDirective, service, u, severity, confidence, messages...)
}

func NewMissingDirective(service Service, u *url.URL, severity Severity, confidence Confidence, messages ...RequestResponse) (*Issue, error) {
	return New(KindMissingDirective, service, u, severity, confidence, messages...)
}

func NewDeprecatedHeader(service Service, u *url.URL, severity Severity, confidence Confidence, messages ...RequestResponse) (*Issue, error) {
	return New(KindDeprecatedHeader, service, u, severity, confidence, messages...)
}

func (i *Issue) Kind() Kind { return i.kind }

// URL returns a copy of the URL the issue was raised for.
func (i *Issue) URL() *url.URL {
	u := cloneURL(&i.url)
	return &u
}

func (i *Issue) Name() string { return i.text.Name }

func (i *Issue) Type() int { return TypeExtension }

func (i *Issue) Severity() Severity { return i.severity }

func (i *Issue) Confidence() Confidence { return i.confidence }

func (i *Issue) Background() string { return i.text.Background }

func (i *Issue) RemediationBackground() string { return i.text.RemediationBackground }

func (i *Issue) Detail() string { return i.text.Detail }

func (i *Issue) RemediationDetail() string { return i.text.RemediationDetail }

// HTTPMessages returns the transcripts the issue is based on. The result is
// never nil and is safe to modify.
func (i *Issue) HTTPMessages() []RequestResponse {
	out := make([]RequestResponse, 0, len(i.messages))
	for _, m := range i.messages {
		out = append(out, m.clone())
	}
	return out
}

func (i *Issue) HTTPService() Service { return i.service }

// WithSeverity returns a copy of the issue carrying a different severity.
func (i *Issue) WithSeverity(s Severity) (*Issue, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeverity, s)
	}
	cp := *i
	cp.severity = s
	return &cp, nil
}

func cloneURL(u *url.URL) url.URL {
	cp := *u
	if u.User != nil {
		user := *u.User
		cp.User = &user
	}
	return cp
}
