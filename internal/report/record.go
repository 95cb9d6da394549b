package report

import (
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"

	"github.com/MOYARU/cspissues/internal/issue"
)

// Evidence is one HTTP transcript in export form. Raw bytes are base64.
type Evidence struct {
	Request         string         `json:"request"`
	Response        string         `json:"response"`
	RequestMarkers  []issue.Marker `json:"request_markers,omitempty"`
	ResponseMarkers []issue.Marker `json:"response_markers,omitempty"`
	Service         issue.Service  `json:"service"`
	Comment         string         `json:"comment,omitempty"`
}

// Record is the JSON export of one issue.
type Record struct {
	SerialNumber          string           `json:"serial_number"`
	KindID                string           `json:"kind_id"`
	TypeIndex             int              `json:"type_index"`
	Name                  string           `json:"name"`
	Severity              issue.Severity   `json:"severity"`
	Confidence            issue.Confidence `json:"confidence"`
	EvidenceQuality       int              `json:"evidence_quality,omitempty"`
	URL                   string           `json:"url"`
	Origin                string           `json:"origin"`
	Path                  string           `json:"path"`
	Service               issue.Service    `json:"service"`
	Background            string           `json:"issue_background"`
	RemediationBackground string           `json:"remediation_background"`
	Detail                string           `json:"issue_detail"`
	RemediationDetail     string           `json:"remediation_detail"`
	Evidence              []Evidence       `json:"evidence"`
}

// FromIssue converts any ScanIssue into an export record. Kind-specific
// fields are filled when the issue is an *issue.Issue.
func FromIssue(si issue.ScanIssue) Record {
	u := si.URL()
	svc := si.HTTPService()

	rec := Record{
		SerialNumber:          uuid.NewString(),
		TypeIndex:             si.Type(),
		Name:                  si.Name(),
		Severity:              si.Severity(),
		Confidence:            si.Confidence(),
		URL:                   u.String(),
		Origin:                svc.String(),
		Path:                  u.EscapedPath(),
		Service:               svc,
		Background:            si.Background(),
		RemediationBackground: si.RemediationBackground(),
		Detail:                si.Detail(),
		RemediationDetail:     si.RemediationDetail(),
		Evidence:              []Evidence{},
	}
	if iss, ok := si.(*issue.Issue); ok {
		rec.KindID = string(iss.Kind())
	}
	if rec.Path == "" {
		rec.Path = "/"
	}

	for _, m := range si.HTTPMessages() {
		rec.Evidence = append(rec.Evidence, Evidence{
			Request:         base64.StdEncoding.EncodeToString(m.Request),
			Response:        base64.StdEncoding.EncodeToString(m.Response),
			RequestMarkers:  m.RequestMarkers,
			ResponseMarkers: m.ResponseMarkers,
			Service:         m.Service,
			Comment:         m.Comment,
		})
	}

	rec.EvidenceQuality = ScoreEvidenceQuality(rec)
	return rec
}

// DecodeEvidence returns the raw request and response bytes of e.
func DecodeEvidence(e Evidence) ([]byte, []byte, error) {
	req, err := base64.StdEncoding.DecodeString(e.Request)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode request: %w", err)
	}
	resp, err := base64.StdEncoding.DecodeString(e.Response)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return req, resp, nil
}
