package output

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MOYARU/cspissues/internal/engine"
	"github.com/MOYARU/cspissues/internal/issue"
	"github.com/MOYARU/cspissues/internal/report"
)

func sampleRecords() []report.Record {
	resp := "HTTP/1.1 200 OK\r\nContent-Security-Policy: default-src *\r\n\r\n"
	return []report.Record{
		{Name: "Deprecated Header", Severity: issue.SeverityInformation, URL: "https://example.com/"},
		{Name: "Wild Card Directive", Severity: issue.SeverityHigh, URL: "https://example.com/b", Evidence: []report.Evidence{{
			Request:         base64.StdEncoding.EncodeToString([]byte("GET /b HTTP/1.1\r\n\r\n")),
			Response:        base64.StdEncoding.EncodeToString([]byte(resp)),
			ResponseMarkers: []issue.Marker{{Start: 17, End: 55}},
		}}},
		{Name: "Missing CSP Directive", Severity: issue.SeverityMedium, URL: "https://example.com/"},
		{Name: "Unsafe Content Sources", Severity: issue.SeverityMedium, URL: "https://example.com/"},
		{Name: "Insecure Content Sources", Severity: issue.SeverityLow, URL: "https://example.com/"},
		{Name: "Wild Card Directive", Severity: issue.SeverityFalsePositive, URL: "https://example.com/a"},
	}
}

func TestNewDocumentSummaryAndOrder(t *testing.T) {
	metrics := &engine.Metrics{Requests: 3, Failures: 1, Duration: 1500 * time.Millisecond}
	doc := NewDocument([]string{"https://example.com"}, sampleRecords(), metrics, time.Now())

	assert.Equal(t, Summary{High: 1, Medium: 2, Low: 1, Information: 1, FalsePositive: 1, Total: 6}, doc.Summary)
	require.Len(t, doc.Issues, 6)
	assert.Equal(t, issue.SeverityHigh, doc.Issues[0].Severity)
	assert.Equal(t, "Missing CSP Directive", doc.Issues[1].Name)
	assert.Equal(t, "Unsafe Content Sources", doc.Issues[2].Name)
	assert.Equal(t, issue.SeverityFalsePositive, doc.Issues[5].Severity)
	require.NotNil(t, doc.Requests)
	assert.EqualValues(t, 1500, doc.Requests.RequestTimeMS)
}

func TestSaveAndLoadJSONReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	doc := NewDocument([]string{"https://example.com"}, sampleRecords(), nil, time.Now())

	require.NoError(t, SaveJSONReport(path, doc))

	loaded, err := LoadJSONReport(path)
	require.NoError(t, err)
	assert.Equal(t, doc.Summary, loaded.Summary)
	assert.Equal(t, "cspissues", loaded.Tool)
	assert.Nil(t, loaded.Requests)
	require.Len(t, loaded.Issues, 6)
	assert.Equal(t, doc.Issues[0].Evidence, loaded.Issues[0].Evidence)
}

func TestLoadJSONReportRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := LoadJSONReport(path)
	assert.Error(t, err)
}

func TestSaveHTMLReportHighlightsPolicyHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	doc := NewDocument([]string{"https://example.com"}, sampleRecords(), nil, time.Now())

	require.NoError(t, SaveHTMLReport(path, doc))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(raw)
	assert.Contains(t, html, "Wild Card Directive")
	assert.Contains(t, html, "<mark>Content-Security-Policy: default-src *</mark>")
	assert.Contains(t, html, `class="issue high"`)
	assert.Contains(t, html, `class="issue false-positive"`)
}

func TestReportFileName(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "cspissues_report_https_example.com_a_20260102_030405.json", ReportFileName([]string{"https://example.com/a"}, "json", now))
	assert.True(t, strings.HasPrefix(ReportFileName([]string{"a", "b"}, "html", now), "cspissues_report_multi_"))
}
