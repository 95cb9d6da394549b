package engine

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/MOYARU/cspissues/internal/issue"
	appver "github.com/MOYARU/cspissues/internal/version"
)

// policyHeaders are the response headers that carry a CSP, current or legacy.
var policyHeaders = []string{
	"content-security-policy",
	"content-security-policy-report-only",
	"x-content-security-policy",
	"x-webkit-csp",
}

type CaptureResult struct {
	InitialURL *url.URL
	FinalURL   *url.URL
	StatusCode int
	Transcript issue.RequestResponse
}

// Capture issues a GET for target and records the raw exchange. The response
// body in the transcript is the decoded body.
func Capture(ctx context.Context, client *http.Client, target string) (*CaptureResult, error) {
	initialURL, err := NormalizeTarget(target)
	if err != nil {
		return nil, err
	}
	if client == nil {
		client = NewHTTPClient(false, nil, 0)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, initialURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("invalid target URL: %w", err)
	}
	req.Header.Set("User-Agent", appver.UserAgent())

	rawReq, err := httputil.DumpRequestOut(req, false)
	if err != nil {
		return nil, fmt.Errorf("failed to dump request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := DecodeResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	head, err := httputil.DumpResponse(resp, false)
	if err != nil {
		return nil, fmt.Errorf("failed to dump response: %w", err)
	}
	rawResp := make([]byte, 0, len(head)+len(body))
	rawResp = append(rawResp, head...)
	rawResp = append(rawResp, body...)

	finalURL := initialURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL
	}
	service, err := issue.ServiceFromURL(finalURL)
	if err != nil {
		return nil, err
	}

	return &CaptureResult{
		InitialURL: initialURL,
		FinalURL:   finalURL,
		StatusCode: resp.StatusCode,
		Transcript: issue.RequestResponse{
			Request:         rawReq,
			Response:        rawResp,
			Service:         service,
			ResponseMarkers: PolicyHeaderMarkers(head),
		},
	}, nil
}

// PolicyHeaderMarkers returns one marker per CSP header line in a raw
// response head, excluding the line terminator.
func PolicyHeaderMarkers(head []byte) []issue.Marker {
	var markers []issue.Marker
	end := bytes.Index(head, []byte("\r\n\r\n"))
	if end < 0 {
		end = len(head)
	}

	offset := 0
	for offset < end {
		lineEnd := bytes.Index(head[offset:end], []byte("\r\n"))
		if lineEnd < 0 {
			lineEnd = end - offset
		}
		line := head[offset : offset+lineEnd]
		if colon := bytes.IndexByte(line, ':'); colon > 0 {
			name := strings.ToLower(strings.TrimSpace(string(line[:colon])))
			for _, h := range policyHeaders {
				if name == h {
					markers = append(markers, issue.Marker{Start: offset, End: offset + lineEnd})
					break
				}
			}
		}
		offset += lineEnd + 2
	}
	return markers
}

// NormalizeTarget parses target, defaulting to https when no scheme is given.
func NormalizeTarget(target string) (*url.URL, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, fmt.Errorf("target is empty")
	}
	if !strings.Contains(target, "://") {
		target = "https://" + target
	}

	parsed, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid target URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme: %s (only http/https allowed)", parsed.Scheme)
	}
	if parsed.Hostname() == "" {
		return nil, fmt.Errorf("invalid target URL: missing host")
	}
	return parsed, nil
}
