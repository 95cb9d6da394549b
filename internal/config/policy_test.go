package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(oldwd) })
	return tmp
}

func TestLoadPolicyDefaultsWithoutFile(t *testing.T) {
	chdirTemp(t)

	p, err := LoadPolicy()
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy(), p)
}

func TestLoadPolicyFromFile(t *testing.T) {
	tmp := chdirTemp(t)

	content := `max_concurrency: 9
request_budget: 777
timeout_seconds: 20
delay_ms: 150
cross_domain: true
redaction_patterns:
  - 'sess_[a-z0-9]+'
  - ''
severity_overrides:
  csp_deprecated_header: Information
`
	require.NoError(t, os.WriteFile(filepath.Join(tmp, FileName), []byte(content), 0o644))

	p, err := LoadPolicy()
	require.NoError(t, err)
	assert.Equal(t, 9, p.MaxConcurrency)
	assert.EqualValues(t, 777, p.RequestBudget)
	assert.Equal(t, 20, p.TimeoutSeconds)
	assert.Equal(t, 150, p.DelayMS)
	assert.True(t, p.CrossDomain)
	assert.Equal(t, []string{"sess_[a-z0-9]+"}, p.RedactionPatterns)
	assert.Equal(t, map[string]string{"CSP_DEPRECATED_HEADER": "Information"}, p.SeverityOverrides)
	assert.Equal(t, []string{"sess_[a-z0-9]+"}, LoadRedactionPatterns())
}

func TestLoadPolicyRejectsMalformedYAML(t *testing.T) {
	tmp := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(tmp, FileName), []byte("max_concurrency: [1,\n"), 0o644))

	p, err := LoadPolicy()
	assert.Error(t, err)
	assert.Equal(t, DefaultPolicy().MaxConcurrency, p.MaxConcurrency)
}

func TestLoadPolicyReturnsDetachedCopy(t *testing.T) {
	tmp := chdirTemp(t)
	content := "redaction_patterns:\n  - 'sess_[a-z0-9]+'\nseverity_overrides:\n  CSP_UNSAFE_CONTENT: High\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmp, FileName), []byte(content), 0o644))

	p, err := LoadPolicy()
	require.NoError(t, err)
	p.RedactionPatterns[0] = "changed"
	p.SeverityOverrides["CSP_UNSAFE_CONTENT"] = "Low"
	p.SeverityOverrides["CSP_MISSING_DIRECTIVE"] = "High"

	again, err := LoadPolicy()
	require.NoError(t, err)
	assert.Equal(t, []string{"sess_[a-z0-9]+"}, again.RedactionPatterns)
	assert.Equal(t, map[string]string{"CSP_UNSAFE_CONTENT": "High"}, again.SeverityOverrides)
}
