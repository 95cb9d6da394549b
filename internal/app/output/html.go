package output

import (
	"html/template"
	"os"
	"strings"

	msges "github.com/MOYARU/cspissues/internal/messages"
	"github.com/MOYARU/cspissues/internal/report"
)

type templateTranscript struct {
	Request  string
	Response string
	Markers  []string
}

type templateIssue struct {
	report.Record
	SeverityClass string
	Transcripts   []templateTranscript
}

type htmlReportData struct {
	Doc    Document
	Issues []templateIssue
	Time   string

	UITitle         string
	UITarget        string
	UIScanTime      string
	UIHigh          string
	UIMedium        string
	UILow           string
	UIInfo          string
	UIFalsePositive string
	UIIssues        string
	UIBackground    string
	UIDetail        string
	UIRemediation   string
	UITranscripts   string
	UINoIssues      string
}

// SaveHTMLReport renders doc as a standalone HTML page.
func SaveHTMLReport(path string, doc Document) error {
	data := htmlReportData{
		Doc:             doc,
		Time:            doc.GeneratedAt.Format("2006-01-02 15:04:05"),
		UITitle:         msges.GetUIMessage("HTMLTitle"),
		UITarget:        msges.GetUIMessage("HTMLTarget"),
		UIScanTime:      msges.GetUIMessage("HTMLScanTime"),
		UIHigh:          msges.GetUIMessage("HTMLHigh"),
		UIMedium:        msges.GetUIMessage("HTMLMedium"),
		UILow:           msges.GetUIMessage("HTMLLow"),
		UIInfo:          msges.GetUIMessage("HTMLInfo"),
		UIFalsePositive: msges.GetUIMessage("HTMLFalsePositive"),
		UIIssues:        msges.GetUIMessage("HTMLIssues"),
		UIBackground:    msges.GetUIMessage("HTMLBackground"),
		UIDetail:        msges.GetUIMessage("HTMLDetail"),
		UIRemediation:   msges.GetUIMessage("HTMLRemediation"),
		UITranscripts:   msges.GetUIMessage("HTMLTranscripts"),
		UINoIssues:      msges.GetUIMessage("HTMLNoIssues"),
	}

	for _, r := range doc.Issues {
		ti := templateIssue{
			Record:        r,
			SeverityClass: strings.ReplaceAll(strings.ToLower(string(r.Severity)), " ", "-"),
		}
		for _, e := range r.Evidence {
			req, resp, err := report.DecodeEvidence(e)
			if err != nil {
				continue
			}
			tt := templateTranscript{Request: string(req), Response: string(resp)}
			for _, m := range e.ResponseMarkers {
				if m.Start >= 0 && m.End <= len(resp) && m.Start < m.End {
					tt.Markers = append(tt.Markers, string(resp[m.Start:m.End]))
				}
			}
			ti.Transcripts = append(ti.Transcripts, tt)
		}
		data.Issues = append(data.Issues, ti)
	}

	t, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := t.Execute(f, data); err != nil {
		return err
	}
	return f.Close()
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.UITitle}}</title>
    <style>
        body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 0; background: #f4f6f8; color: #1f2933; }
        .container { max-width: 1100px; margin: 0 auto; padding: 24px; }
        header { background: #1f2933; color: #fff; padding: 20px 24px; border-radius: 8px; }
        .summary-cards { display: grid; grid-template-columns: repeat(5, 1fr); gap: 12px; margin: 20px 0; }
        .card { background: #fff; border-radius: 8px; padding: 12px; text-align: center; border-top: 4px solid #9aa5b1; }
        .card.high { border-color: #d64545; }
        .card.medium { border-color: #f0b429; }
        .card.low { border-color: #2186eb; }
        .card.information { border-color: #7b8794; }
        .issue { background: #fff; border-radius: 8px; padding: 16px 20px; margin-bottom: 16px; border-left: 6px solid #9aa5b1; }
        .issue.high { border-color: #d64545; }
        .issue.medium { border-color: #f0b429; }
        .issue.low { border-color: #2186eb; }
        .issue.information { border-color: #7b8794; }
        pre { background: #f0f4f8; padding: 10px; overflow-x: auto; white-space: pre-wrap; word-break: break-all; }
        mark { background: #ffe3a3; }
        .meta { color: #52606d; font-size: 0.9em; }
    </style>
</head>
<body>
<div class="container">
    <header>
        <h1>{{.UITitle}}</h1>
        {{range .Doc.Targets}}<p><strong>{{$.UITarget}}:</strong> {{.}}</p>{{end}}
        <p><strong>{{.UIScanTime}}:</strong> {{.Time}}</p>
    </header>

    <div class="summary-cards">
        <div class="card high"><h3>{{.Doc.Summary.High}}</h3><p>{{.UIHigh}}</p></div>
        <div class="card medium"><h3>{{.Doc.Summary.Medium}}</h3><p>{{.UIMedium}}</p></div>
        <div class="card low"><h3>{{.Doc.Summary.Low}}</h3><p>{{.UILow}}</p></div>
        <div class="card information"><h3>{{.Doc.Summary.Information}}</h3><p>{{.UIInfo}}</p></div>
        <div class="card"><h3>{{.Doc.Summary.FalsePositive}}</h3><p>{{.UIFalsePositive}}</p></div>
    </div>

    <h2>{{.UIIssues}}</h2>
    {{range .Issues}}
    <div class="issue {{.SeverityClass}}">
        <h3>[{{.Severity}}] {{.Name}}</h3>
        <p class="meta">{{.URL}} &middot; {{.Confidence}} &middot; {{.Origin}}{{if .EvidenceQuality}} &middot; {{.EvidenceQuality}}/100{{end}}</p>
        <h4>{{$.UIBackground}}</h4>
        <p>{{.Background}}</p>
        <h4>{{$.UIDetail}}</h4>
        <p>{{.Detail}}</p>
        <h4>{{$.UIRemediation}}</h4>
        <p>{{.RemediationBackground}}</p>
        <p>{{.RemediationDetail}}</p>
        {{if .Transcripts}}
        <h4>{{$.UITranscripts}}</h4>
        {{range .Transcripts}}
        {{range .Markers}}<p><mark>{{.}}</mark></p>{{end}}
        <pre>{{.Request}}</pre>
        <pre>{{.Response}}</pre>
        {{end}}
        {{end}}
    </div>
    {{else}}
    <p>{{.UINoIssues}}</p>
    {{end}}
</div>
</body>
</html>
`
