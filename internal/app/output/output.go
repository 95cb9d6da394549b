package output

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MOYARU/cspissues/internal/app/ui"
	"github.com/MOYARU/cspissues/internal/engine"
	"github.com/MOYARU/cspissues/internal/issue"
	msges "github.com/MOYARU/cspissues/internal/messages"
	"github.com/MOYARU/cspissues/internal/report"
	appver "github.com/MOYARU/cspissues/internal/version"
)

type Summary struct {
	High          int `json:"high"`
	Medium        int `json:"medium"`
	Low           int `json:"low"`
	Information   int `json:"information"`
	FalsePositive int `json:"false_positive"`
	Total         int `json:"total"`
}

type RequestStats struct {
	Requests      int64  `json:"requests"`
	Failures      int64  `json:"failures"`
	RequestTimeMS int64  `json:"request_time_ms"`
	RequestTime   string `json:"request_time_text"`
}

// Document is the on-disk issue report.
type Document struct {
	Tool        string          `json:"tool"`
	Version     string          `json:"version"`
	Targets     []string        `json:"targets"`
	GeneratedAt time.Time       `json:"generated_at"`
	Summary     Summary         `json:"summary"`
	Requests    *RequestStats   `json:"requests,omitempty"`
	Issues      []report.Record `json:"issues"`
}

// NewDocument builds a report for records, sorted by severity then name.
func NewDocument(targets []string, records []report.Record, metrics *engine.Metrics, generatedAt time.Time) Document {
	sorted := make([]report.Record, len(records))
	copy(sorted, records)
	SortRecords(sorted)

	doc := Document{
		Tool:        "cspissues",
		Version:     appver.Value,
		Targets:     targets,
		GeneratedAt: generatedAt,
		Summary:     Summarize(sorted),
		Issues:      sorted,
	}
	if doc.Targets == nil {
		doc.Targets = []string{}
	}
	if metrics != nil {
		doc.Requests = &RequestStats{
			Requests:      metrics.Requests,
			Failures:      metrics.Failures,
			RequestTimeMS: metrics.Duration.Milliseconds(),
			RequestTime:   metrics.Duration.String(),
		}
	}
	return doc
}

func Summarize(records []report.Record) Summary {
	s := Summary{}
	for _, r := range records {
		switch r.Severity {
		case issue.SeverityHigh:
			s.High++
		case issue.SeverityMedium:
			s.Medium++
		case issue.SeverityLow:
			s.Low++
		case issue.SeverityInformation:
			s.Information++
		case issue.SeverityFalsePositive:
			s.FalsePositive++
		}
	}
	s.Total = len(records)
	return s
}

func SortRecords(records []report.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		wi, wj := records[i].Severity.Weight(), records[j].Severity.Weight()
		if wi == wj {
			if records[i].Name == records[j].Name {
				return records[i].URL < records[j].URL
			}
			return records[i].Name < records[j].Name
		}
		return wi > wj
	})
}

// ReportFileName derives a default report file name from the first target.
func ReportFileName(targets []string, ext string, now time.Time) string {
	name := "multi"
	if len(targets) == 1 {
		name = targets[0]
		name = strings.ReplaceAll(name, "://", "_")
		name = strings.ReplaceAll(name, "/", "_")
		name = strings.ReplaceAll(name, ":", "_")
		name = strings.ReplaceAll(name, "?", "_")
		name = strings.TrimRight(name, "_")
	}
	return fmt.Sprintf("cspissues_report_%s_%s.%s", name, now.Format("20060102_150405"), ext)
}

func SaveJSONReport(path string, doc Document) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return err
	}
	return file.Close()
}

func LoadJSONReport(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("failed to parse report %s: %w", path, err)
	}
	return doc, nil
}

var progressMu sync.Mutex

// PrintScanProgress updates the current progress on the same line.
func PrintScanProgress(current, total int, label, target string) {
	progressMu.Lock()
	defer progressMu.Unlock()

	if total <= 0 {
		fmt.Printf("\r [------------------------------] 0%% | %s [0/0]: %s\033[K", label, target)
		return
	}

	percentage := float64(current) / float64(total) * 100
	// Truncate target URL to prevent line wrapping
	if len(target) > 50 {
		target = target[:47] + "..."
	}
	width := 30
	filled := int(float64(width) * (float64(current) / float64(total)))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("#", filled) + strings.Repeat("-", width-filled)
	fmt.Printf("\r [%s] %.0f%% | %s [%d/%d]: %s\033[K", bar, percentage, label, current, total, target)
}

// PrintIssues prints records to the console, most severe first.
func PrintIssues(records []report.Record) {
	if len(records) == 0 {
		fmt.Printf("%s%s%s\n", ui.ColorGreen, msges.GetUIMessage("ConsoleNoIssues"), ui.ColorReset)
		return
	}

	sorted := make([]report.Record, len(records))
	copy(sorted, records)
	SortRecords(sorted)

	fmt.Printf("\n%s%s%s\n", ui.ColorWhite, msges.GetUIMessage("ConsoleIssuesTitle"), ui.ColorReset)
	for _, r := range sorted {
		color := SeverityColor(r.Severity)
		fmt.Printf("\n%s[%s] %s%s\n", color, r.Severity, r.Name, ui.ColorReset)
		fmt.Printf("%s - %s%s\n", ui.ColorGray, r.URL, ui.ColorReset)
		fmt.Printf("%s - %s: %s%s\n", ui.ColorGray, msges.GetUIMessage("ConsoleConfidenceLabel"), r.Confidence, ui.ColorReset)
		fmt.Printf("%s - %s: %s%s\n", ui.ColorGray, msges.GetUIMessage("ConsoleServiceLabel"), r.Origin, ui.ColorReset)
		fmt.Printf("%s - %s: %s%s\n", ui.ColorGray, msges.GetUIMessage("ConsoleBackgroundLabel"), r.Background, ui.ColorReset)
		fmt.Printf("%s - %s: %s%s\n", ui.ColorGray, msges.GetUIMessage("ConsoleDetailLabel"), r.Detail, ui.ColorReset)
		fmt.Printf("%s - %s: %s / %s%s\n", ui.ColorGray, msges.GetUIMessage("ConsoleRemediationLabel"), r.RemediationBackground, r.RemediationDetail, ui.ColorReset)
		fmt.Printf("%s - %s: %d%s\n", ui.ColorGray, msges.GetUIMessage("ConsoleTranscriptsLabel"), len(r.Evidence), ui.ColorReset)
		if r.EvidenceQuality > 0 {
			fmt.Printf("%s - %s: %d/100%s\n", ui.ColorGray, msges.GetUIMessage("ConsoleEvidenceQuality"), r.EvidenceQuality, ui.ColorReset)
		}
	}
}

// PrintSummary prints per-severity counts.
func PrintSummary(s Summary) {
	fmt.Printf("\n%s%s%s\n", ui.ColorWhite, msges.GetUIMessage("ConsoleSummaryTitle"), ui.ColorReset)
	rows := []struct {
		sev   issue.Severity
		count int
	}{
		{issue.SeverityHigh, s.High},
		{issue.SeverityMedium, s.Medium},
		{issue.SeverityLow, s.Low},
		{issue.SeverityInformation, s.Information},
		{issue.SeverityFalsePositive, s.FalsePositive},
	}
	for _, row := range rows {
		fmt.Printf(" %s%-15s%s %d\n", SeverityColor(row.sev), row.sev, ui.ColorReset, row.count)
	}
	fmt.Printf(" %-15s %d\n", "Total", s.Total)
}

func SeverityColor(s issue.Severity) string {
	switch s {
	case issue.SeverityHigh:
		return ui.ColorHigh
	case issue.SeverityMedium:
		return ui.ColorMedium
	case issue.SeverityLow:
		return ui.ColorLow
	case issue.SeverityInformation:
		return ui.ColorInfo
	case issue.SeverityFalsePositive:
		return ui.ColorGray
	default:
		return ui.ColorWhite
	}
}
