package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetIssueTextKnownIDs(t *testing.T) {
	names := map[string]string{
		"CSP_WILDCARD_DIRECTIVE": "Wild Card Directive",
		"CSP_UNSAFE_CONTENT":     "Unsafe Content Sources",
		"CSP_INSECURE_CONTENT":   "Insecure Content Sources",
		"CSP_MISSING_DIRECTIVE":  "Missing CSP Directive",
		"CSP_DEPRECATED_HEADER":  "Deprecated Header",
	}
	for id, want := range names {
		text, ok := GetIssueText(id)
		require.True(t, ok, id)
		assert.Equal(t, want, text.Name)
		assert.Equal(t, "Issue background", text.Background)
		assert.Equal(t, "Remediation background", text.RemediationBackground)
		assert.Equal(t, "Issue details", text.Detail)
		assert.Equal(t, "Remediation details", text.RemediationDetail)
	}
}

func TestGetIssueTextUnknownID(t *testing.T) {
	_, ok := GetIssueText("CSP_NOPE")
	assert.False(t, ok)
}

func TestGetUIMessage(t *testing.T) {
	assert.Equal(t, "Target: https://example.com", GetUIMessage("Target", "https://example.com"))
	assert.Equal(t, "NoSuchKey", GetUIMessage("NoSuchKey"))
}
