package raise

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MOYARU/cspissues/internal/app/output"
	"github.com/MOYARU/cspissues/internal/config"
	"github.com/MOYARU/cspissues/internal/issue"
)

func newCSPServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Security-Policy", "default-src 'self'")
		_, _ = io.WriteString(w, "hello")
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testPolicy() *config.Policy {
	p := config.DefaultPolicy()
	p.MaxConcurrency = 2
	return &p
}

func TestRunCapturesAndSavesReport(t *testing.T) {
	srv := newCSPServer(t)
	out := filepath.Join(t.TempDir(), "issues.json")

	res, err := Run(context.Background(), Options{
		Kind:       issue.KindDeprecatedHeader,
		Targets:    []string{srv.URL + "/a", srv.URL + "/b", srv.URL + "/a"},
		Severity:   issue.SeverityLow,
		Confidence: issue.ConfidenceCertain,
		Comment:    "legacy header",
		JSONOutput: true,
		HTMLOutput: true,
		OutPath:    out,
		Quiet:      true,
		Policy:     testPolicy(),
		Client:     srv.Client(),
	})
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Empty(t, res.Errors)

	for _, rec := range res.Records {
		assert.Equal(t, "Deprecated Header", rec.Name)
		assert.Equal(t, "CSP_DEPRECATED_HEADER", rec.KindID)
		assert.Equal(t, issue.SeverityLow, rec.Severity)
		require.Len(t, rec.Evidence, 1)
		assert.Equal(t, "legacy header", rec.Evidence[0].Comment)
		assert.Len(t, rec.Evidence[0].ResponseMarkers, 1)
	}

	require.NotNil(t, res.Document.Requests)
	assert.EqualValues(t, 2, res.Document.Requests.Requests)

	doc, err := output.LoadJSONReport(out)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Summary.Low)

	_, err = os.Stat(filepath.Join(filepath.Dir(out), "issues.html"))
	assert.NoError(t, err)
}

func TestRunAppliesSeverityOverride(t *testing.T) {
	p := testPolicy()
	p.SeverityOverrides = map[string]string{"CSP_WILDCARD_DIRECTIVE": "information"}

	res, err := Run(context.Background(), Options{
		Kind:       issue.KindWildCardDirective,
		Targets:    []string{"https://example.com/"},
		Severity:   issue.SeverityHigh,
		Confidence: issue.ConfidenceFirm,
		NoCapture:  true,
		Quiet:      true,
		Policy:     p,
	})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, issue.SeverityInformation, res.Records[0].Severity)
	assert.Empty(t, res.Records[0].Evidence)
	assert.Equal(t, 1, res.Document.Summary.Information)
}

func TestRunCollectsCaptureErrors(t *testing.T) {
	srv := newCSPServer(t)
	srv.Close()

	res, err := Run(context.Background(), Options{
		Kind:       issue.KindMissingDirective,
		Targets:    []string{srv.URL},
		Severity:   issue.SeverityMedium,
		Confidence: issue.ConfidenceTentative,
		Quiet:      true,
		Policy:     testPolicy(),
	})
	assert.ErrorIs(t, err, ErrNoIssues)
	require.NotNil(t, res)
	assert.Len(t, res.Errors, 1)
	assert.Empty(t, res.Records)
}

func TestRunValidatesOptions(t *testing.T) {
	base := Options{
		Kind:       issue.KindMissingDirective,
		Targets:    []string{"https://example.com"},
		Severity:   issue.SeverityMedium,
		Confidence: issue.ConfidenceFirm,
		Quiet:      true,
		NoCapture:  true,
		Policy:     testPolicy(),
	}

	bad := base
	bad.Kind = "CSP_NOPE"
	_, err := Run(context.Background(), bad)
	assert.ErrorIs(t, err, issue.ErrUnknownKind)

	bad = base
	bad.Severity = "Critical"
	_, err = Run(context.Background(), bad)
	assert.ErrorIs(t, err, issue.ErrInvalidSeverity)

	bad = base
	bad.Confidence = "Sure"
	_, err = Run(context.Background(), bad)
	assert.ErrorIs(t, err, issue.ErrInvalidConfidence)

	bad = base
	bad.Targets = nil
	_, err = Run(context.Background(), bad)
	assert.Error(t, err)

	bad = base
	bad.Targets = []string{"ftp://example.com"}
	_, err = Run(context.Background(), bad)
	assert.Error(t, err)
}

func TestRootDomainsDeduplicates(t *testing.T) {
	got := rootDomains([]string{"https://a.example.com", "https://b.example.com/x", "http://127.0.0.1:8080"})
	assert.Equal(t, []string{"example.com", "127.0.0.1"}, got)
}

func TestSanitizedRecordsFromRun(t *testing.T) {
	res, err := Run(context.Background(), Options{
		Kind:       issue.KindInsecureContentDirective,
		Targets:    []string{"https://example.com/cb?token=abc"},
		Severity:   issue.SeverityMedium,
		Confidence: issue.ConfidenceFirm,
		NoCapture:  true,
		Quiet:      true,
		Policy:     testPolicy(),
	})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.NotContains(t, res.Records[0].URL, "token=abc")
}

func TestRunReturnsReportWriteErrors(t *testing.T) {
	out := filepath.Join(t.TempDir(), "no", "such", "dir", "issues.json")

	res, err := Run(context.Background(), Options{
		Kind:       issue.KindWildCardDirective,
		Targets:    []string{"https://example.com"},
		Severity:   issue.SeverityHigh,
		Confidence: issue.ConfidenceFirm,
		NoCapture:  true,
		JSONOutput: true,
		HTMLOutput: true,
		OutPath:    out,
		Quiet:      true,
		Policy:     testPolicy(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "failed to save JSON report")
	assert.Contains(t, err.Error(), "failed to save HTML report")
	require.NotNil(t, res)
	assert.Len(t, res.Records, 1)
	assert.NoFileExists(t, out)
}
