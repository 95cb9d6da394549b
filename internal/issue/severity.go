package issue

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSeverity   = errors.New("invalid issue severity")
	ErrInvalidConfidence = errors.New("invalid issue confidence")
)

type Severity string
type Confidence string

const (
	SeverityHigh          Severity = "High"
	SeverityMedium        Severity = "Medium"
	SeverityLow           Severity = "Low"
	SeverityInformation   Severity = "Information"
	SeverityFalsePositive Severity = "False positive"

	ConfidenceCertain   Confidence = "Certain"
	ConfidenceFirm      Confidence = "Firm"
	ConfidenceTentative Confidence = "Tentative"
)

// Severities lists every severity from most to least severe.
func Severities() []Severity {
	return []Severity{SeverityHigh, SeverityMedium, SeverityLow, SeverityInformation, SeverityFalsePositive}
}

func (s Severity) Valid() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow, SeverityInformation, SeverityFalsePositive:
		return true
	default:
		return false
	}
}

// Weight orders severities for sorting; unknown values sort last.
func (s Severity) Weight() int {
	switch s {
	case SeverityHigh:
		return 4
	case SeverityMedium:
		return 3
	case SeverityLow:
		return 2
	case SeverityInformation:
		return 1
	case SeverityFalsePositive:
		return 0
	default:
		return -1
	}
}

func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceCertain, ConfidenceFirm, ConfidenceTentative:
		return true
	default:
		return false
	}
}

// ParseSeverity accepts severity names case-insensitively, plus "info" and "fp".
func ParseSeverity(v string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "high":
		return SeverityHigh, nil
	case "medium":
		return SeverityMedium, nil
	case "low":
		return SeverityLow, nil
	case "information", "info":
		return SeverityInformation, nil
	case "false positive", "false-positive", "fp":
		return SeverityFalsePositive, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSeverity, v)
	}
}

func ParseConfidence(v string) (Confidence, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "certain":
		return ConfidenceCertain, nil
	case "firm":
		return ConfidenceFirm, nil
	case "tentative":
		return ConfidenceTentative, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidConfidence, v)
	}
}
