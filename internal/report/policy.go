package report

import (
	"strings"

	"github.com/MOYARU/cspissues/internal/issue"
)

// ApplySeverityOverride rewrites the issue severity when overrides (kind ID
// to severity name) name its kind. Invalid override values are ignored.
func ApplySeverityOverride(iss *issue.Issue, overrides map[string]string) *issue.Issue {
	if iss == nil || len(overrides) == 0 {
		return iss
	}
	raw, ok := overrides[strings.ToUpper(string(iss.Kind()))]
	if !ok {
		return iss
	}
	sev, err := issue.ParseSeverity(raw)
	if err != nil {
		return iss
	}
	out, err := iss.WithSeverity(sev)
	if err != nil {
		return iss
	}
	return out
}

// ScoreEvidenceQuality computes a lightweight evidence quality score in range [0,100].
func ScoreEvidenceQuality(r Record) int {
	score := 30

	switch r.Confidence {
	case issue.ConfidenceCertain:
		score += 35
	case issue.ConfidenceFirm:
		score += 22
	case issue.ConfidenceTentative:
		score += 10
	}

	switch n := len(r.Evidence); {
	case n >= 2:
		score += 20
	case n == 1:
		score += 12
	}

	for _, e := range r.Evidence {
		if len(e.ResponseMarkers) > 0 || len(e.RequestMarkers) > 0 {
			score += 15
			break
		}
	}

	if r.Severity == issue.SeverityFalsePositive {
		score -= 30
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
