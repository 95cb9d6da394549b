package report

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MOYARU/cspissues/internal/issue"
)

func newIssue(t *testing.T, kind issue.Kind, sev issue.Severity, conf issue.Confidence, msgs ...issue.RequestResponse) *issue.Issue {
	t.Helper()
	u, err := url.Parse("https://example.com/account")
	require.NoError(t, err)
	iss, err := issue.New(kind, issue.Service{}, u, sev, conf, msgs...)
	require.NoError(t, err)
	return iss
}

func TestFromIssue(t *testing.T) {
	iss := newIssue(t, issue.KindWildCardDirective, issue.SeverityHigh, issue.ConfidenceCertain, issue.RequestResponse{
		Request:         []byte("GET /account HTTP/1.1\r\n\r\n"),
		Response:        []byte("HTTP/1.1 200 OK\r\n\r\n"),
		ResponseMarkers: []issue.Marker{{Start: 1, End: 4}},
	})

	rec := FromIssue(iss)
	assert.NotEmpty(t, rec.SerialNumber)
	assert.Equal(t, "CSP_WILDCARD_DIRECTIVE", rec.KindID)
	assert.Equal(t, 0, rec.TypeIndex)
	assert.Equal(t, "Wild Card Directive", rec.Name)
	assert.Equal(t, issue.SeverityHigh, rec.Severity)
	assert.Equal(t, "https://example.com:443", rec.Origin)
	assert.Equal(t, "/account", rec.Path)
	assert.Equal(t, "Issue background", rec.Background)
	assert.Equal(t, "Remediation details", rec.RemediationDetail)
	require.Len(t, rec.Evidence, 1)

	req, resp, err := DecodeEvidence(rec.Evidence[0])
	require.NoError(t, err)
	assert.Equal(t, "GET /account HTTP/1.1\r\n\r\n", string(req))
	assert.Equal(t, "HTTP/1.1 200 OK\r\n\r\n", string(resp))

	// 30 + certain 35 + one transcript 12 + markers 15
	assert.Equal(t, 92, rec.EvidenceQuality)

	other := FromIssue(iss)
	assert.NotEqual(t, rec.SerialNumber, other.SerialNumber)
}

func TestFromIssueWithoutMessages(t *testing.T) {
	rec := FromIssue(newIssue(t, issue.KindMissingDirective, issue.SeverityLow, issue.ConfidenceTentative))
	require.NotNil(t, rec.Evidence)
	assert.Empty(t, rec.Evidence)
	assert.Equal(t, 40, rec.EvidenceQuality)
}

func TestApplySeverityOverride(t *testing.T) {
	tests := []struct {
		name      string
		kind      issue.Kind
		overrides map[string]string
		want      issue.Severity
	}{
		{
			name:      "override to information",
			kind:      issue.KindDeprecatedHeader,
			overrides: map[string]string{"CSP_DEPRECATED_HEADER": "info"},
			want:      issue.SeverityInformation,
		},
		{
			name:      "other kind keeps original",
			kind:      issue.KindUnsafeContentDirective,
			overrides: map[string]string{"CSP_DEPRECATED_HEADER": "low"},
			want:      issue.SeverityHigh,
		},
		{
			name:      "invalid override ignored",
			kind:      issue.KindDeprecatedHeader,
			overrides: map[string]string{"CSP_DEPRECATED_HEADER": "critical"},
			want:      issue.SeverityHigh,
		},
		{
			name: "no overrides",
			kind: issue.KindDeprecatedHeader,
			want: issue.SeverityHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplySeverityOverride(newIssue(t, tt.kind, issue.SeverityHigh, issue.ConfidenceFirm), tt.overrides)
			assert.Equal(t, tt.want, got.Severity())
		})
	}
}

func TestScoreEvidenceQualityBounds(t *testing.T) {
	fp := Record{Severity: issue.SeverityFalsePositive}
	assert.Equal(t, 0, ScoreEvidenceQuality(fp))

	best := Record{
		Confidence: issue.ConfidenceCertain,
		Evidence:   []Evidence{{ResponseMarkers: []issue.Marker{{}}}, {}},
	}
	assert.Equal(t, 100, ScoreEvidenceQuality(best))
}
