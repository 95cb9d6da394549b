package messages

import (
	"fmt"
)

// IssueText is the fixed text reported for one issue kind.
type IssueText struct {
	Name                  string
	Background            string
	RemediationBackground string
	Detail                string
	RemediationDetail     string
}

type rawIssueText struct {
	NameEN                  string
	BackgroundEN            string
	RemediationBackgroundEN string
	DetailEN                string
	RemediationDetailEN     string
}

const (
	placeholderBackground            = "Issue background"
	placeholderRemediationBackground = "Remediation background"
	placeholderDetail                = "Issue details"
	placeholderRemediationDetail     = "Remediation details"
)

var issueMessages = map[string]rawIssueText{
	"CSP_WILDCARD_DIRECTIVE": {
		NameEN:                  "Wild Card Directive",
		BackgroundEN:            placeholderBackground,
		RemediationBackgroundEN: placeholderRemediationBackground,
		DetailEN:                placeholderDetail,
		RemediationDetailEN:     placeholderRemediationDetail,
	},
	"CSP_UNSAFE_CONTENT": {
		NameEN:                  "Unsafe Content Sources",
		BackgroundEN:            placeholderBackground,
		RemediationBackgroundEN: placeholderRemediationBackground,
		DetailEN:                placeholderDetail,
		RemediationDetailEN:     placeholderRemediationDetail,
	},
	"CSP_INSECURE_CONTENT": {
		NameEN:                  "Insecure Content Sources",
		BackgroundEN:            placeholderBackground,
		RemediationBackgroundEN: placeholderRemediationBackground,
		DetailEN:                placeholderDetail,
		RemediationDetailEN:     placeholderRemediationDetail,
	},
	"CSP_MISSING_DIRECTIVE": {
		NameEN:                  "Missing CSP Directive",
		BackgroundEN:            placeholderBackground,
		RemediationBackgroundEN: placeholderRemediationBackground,
		DetailEN:                placeholderDetail,
		RemediationDetailEN:     placeholderRemediationDetail,
	},
	"CSP_DEPRECATED_HEADER": {
		NameEN:                  "Deprecated Header",
		BackgroundEN:            placeholderBackground,
		RemediationBackgroundEN: placeholderRemediationBackground,
		DetailEN:                placeholderDetail,
		RemediationDetailEN:     placeholderRemediationDetail,
	},
}

var uiMessages = map[string]string{
	"HTMLTitle":               "CSP Issue Report",
	"HTMLTarget":              "Target",
	"HTMLScanTime":            "Report Time",
	"HTMLHigh":                "High",
	"HTMLMedium":              "Medium",
	"HTMLLow":                 "Low",
	"HTMLInfo":                "Information",
	"HTMLFalsePositive":       "False positive",
	"HTMLIssues":              "Issues",
	"HTMLBackground":          "Background",
	"HTMLDetail":              "Detail",
	"HTMLRemediation":         "Remediation",
	"HTMLTranscripts":         "HTTP Transcripts",
	"HTMLNoIssues":            "[OK] No issues recorded.",
	"JSONReportSaved":         "JSON Report saved: %s",
	"HTMLReportSaved":         "HTML Report saved: %s",
	"ConsoleIssuesTitle":      "--- Issues ---",
	"ConsoleNoIssues":         "[OK] No issues recorded",
	"ConsoleSeverityLabel":    "Severity",
	"ConsoleConfidenceLabel":  "Confidence",
	"ConsoleServiceLabel":     "Service",
	"ConsoleBackgroundLabel":  "Background",
	"ConsoleDetailLabel":      "Detail",
	"ConsoleRemediationLabel": "Remediation",
	"ConsoleTranscriptsLabel": "Transcripts",
	"ConsoleEvidenceQuality":  "Evidence Quality",
	"ConsoleSummaryTitle":     "--- Summary ---",
	"KindsTitle":              "Known CSP issue kinds:",
	"Target":                  "Target: %s",
	"Kind":                    "Kind: %s",
	"Capturing":               "Capturing",
	"CaptureFailed":           "Capture failed (%s): %v",
	"CaptureCancelled":        "Capture cancelled.",
	"AllCapturesCompleted":    "All captures completed.",
	"OverwritePrompt":         "Report file %s exists. Overwrite?",
	"OverwriteAborted":        "Report not written.",
}

// GetIssueText returns the catalog text for an issue kind ID.
func GetIssueText(id string) (IssueText, bool) {
	msg, ok := issueMessages[id]
	if !ok {
		return IssueText{}, false
	}
	name := msg.NameEN
	if name == "" {
		name = id
	}
	return IssueText{
		Name:                  name,
		Background:            msg.BackgroundEN,
		RemediationBackground: msg.RemediationBackgroundEN,
		Detail:                msg.DetailEN,
		RemediationDetail:     msg.RemediationDetailEN,
	}, true
}

func GetUIMessage(id string, args ...interface{}) string {
	format, ok := uiMessages[id]
	if !ok || format == "" {
		return id
	}
	if len(args) > 0 {
		return fmt.Sprintf(format, args...)
	}
	return format
}
