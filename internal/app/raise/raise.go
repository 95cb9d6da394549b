package raise

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/MOYARU/cspissues/internal/app/output"
	"github.com/MOYARU/cspissues/internal/app/ui"
	"github.com/MOYARU/cspissues/internal/config"
	"github.com/MOYARU/cspissues/internal/engine"
	"github.com/MOYARU/cspissues/internal/issue"
	msges "github.com/MOYARU/cspissues/internal/messages"
	"github.com/MOYARU/cspissues/internal/report"
)

var ErrNoIssues = errors.New("no issues were raised")

type Options struct {
	Kind       issue.Kind
	Targets    []string
	Severity   issue.Severity
	Confidence issue.Confidence
	Comment    string

	// NoCapture raises issues without fetching a transcript.
	NoCapture bool

	JSONOutput bool
	HTMLOutput bool
	// OutPath overrides the generated JSON report file name. The HTML report
	// uses the same path with an .html extension.
	OutPath string
	Quiet   bool

	AllowPrompts bool
	Logger       *zap.Logger
	Policy       *config.Policy
	// Client replaces the policy-built HTTP client; its transport is still
	// wrapped with the boundary, budget and metrics round-trippers.
	Client *http.Client
}

type Result struct {
	Records  []report.Record
	Errors   []string
	Document output.Document
}

// Run raises one issue of opts.Kind per target, capturing a fresh HTTP
// transcript as evidence unless NoCapture is set.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if !opts.Kind.Valid() {
		return nil, fmt.Errorf("%w: %q", issue.ErrUnknownKind, opts.Kind)
	}
	if !opts.Severity.Valid() {
		return nil, fmt.Errorf("%w: %q", issue.ErrInvalidSeverity, opts.Severity)
	}
	if !opts.Confidence.Valid() {
		return nil, fmt.Errorf("%w: %q", issue.ErrInvalidConfidence, opts.Confidence)
	}
	if len(opts.Targets) == 0 {
		return nil, fmt.Errorf("at least one target is required")
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	policy := config.DefaultPolicy()
	if opts.Policy != nil {
		policy = *opts.Policy
	} else {
		loaded, err := config.LoadPolicy()
		if err != nil {
			log.Warn("ignoring policy file", zap.Error(err))
		} else {
			policy = loaded
		}
	}

	targets, err := normalizeTargets(opts.Targets)
	if err != nil {
		return nil, err
	}

	ctx, cancel := ui.WaitForCancel(ctx)
	defer cancel()

	if !opts.Quiet {
		fmt.Printf("%s%s%s\n", ui.ColorWhite, msges.GetUIMessage("Kind", opts.Kind), ui.ColorReset)
		for _, t := range targets {
			fmt.Printf("%s%s%s\n", ui.ColorWhite, msges.GetUIMessage("Target", t), ui.ColorReset)
		}
	}

	client, metrics := buildClient(opts.Client, policy, targets)

	var (
		mu       sync.Mutex
		records  []report.Record
		errs     []string
		finished int32
	)

	g, gctx := errgroup.WithContext(ctx)
	limit := policy.MaxConcurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for _, target := range targets {
		target := target
		g.Go(func() error {
			defer func() {
				n := atomic.AddInt32(&finished, 1)
				if !opts.Quiet {
					output.PrintScanProgress(int(n), len(targets), msges.GetUIMessage("Capturing"), target)
				}
			}()
			if gctx.Err() != nil {
				return nil
			}

			rec, err := raiseOne(gctx, client, target, opts, policy)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Debug("capture failed", zap.String("target", target), zap.Error(err))
				errs = append(errs, msges.GetUIMessage("CaptureFailed", target, err))
				return nil
			}
			log.Debug("issue raised",
				zap.String("target", target),
				zap.String("kind", string(opts.Kind)),
				zap.String("serial", rec.SerialNumber),
				zap.Int("transcripts", len(rec.Evidence)))
			records = append(records, rec)
			return nil
		})
	}
	_ = g.Wait()

	if !opts.Quiet {
		fmt.Println()
	}
	if ctx.Err() != nil {
		if !opts.Quiet {
			fmt.Println(ui.ColorYellow + msges.GetUIMessage("CaptureCancelled") + ui.ColorReset)
		}
		return nil, ctx.Err()
	}

	sort.Strings(errs)
	var snapshot *engine.Metrics
	if metrics != nil {
		s := metrics.Snapshot()
		snapshot = &s
	}
	now := time.Now()
	doc := output.NewDocument(targets, records, snapshot, now)
	result := &Result{Records: doc.Issues, Errors: errs, Document: doc}

	if !opts.Quiet {
		fmt.Printf("%s%s%s\n", ui.ColorGreen, msges.GetUIMessage("AllCapturesCompleted"), ui.ColorReset)
		if len(errs) > 0 {
			fmt.Printf("\n%sErrors encountered:%s\n", ui.ColorRed, ui.ColorReset)
			for _, e := range errs {
				fmt.Printf(" - %s\n", e)
			}
		}
		output.PrintIssues(doc.Issues)
		output.PrintSummary(doc.Summary)
	}

	if len(records) == 0 {
		return result, ErrNoIssues
	}

	var writeErrs []error
	if opts.JSONOutput {
		path := opts.OutPath
		if path == "" {
			path = output.ReportFileName(targets, "json", now)
		}
		if err := writeReport(path, opts, func(p string) error { return output.SaveJSONReport(p, doc) }); err != nil {
			writeErrs = append(writeErrs, fmt.Errorf("failed to save JSON report: %w", err))
		} else if !opts.Quiet {
			fmt.Printf("\n%s\n", msges.GetUIMessage("JSONReportSaved", path))
		}
	}

	if opts.HTMLOutput {
		path := output.ReportFileName(targets, "html", now)
		if opts.OutPath != "" {
			path = strings.TrimSuffix(opts.OutPath, ".json") + ".html"
		}
		if err := writeReport(path, opts, func(p string) error { return output.SaveHTMLReport(p, doc) }); err != nil {
			writeErrs = append(writeErrs, fmt.Errorf("failed to save HTML report: %w", err))
		} else if !opts.Quiet {
			fmt.Printf("%s\n", msges.GetUIMessage("HTMLReportSaved", path))
		}
	}

	if len(writeErrs) > 0 {
		log.Warn("report write failed", zap.Errors("errors", writeErrs))
		return result, errors.Join(writeErrs...)
	}
	return result, nil
}

func raiseOne(ctx context.Context, client *http.Client, target string, opts Options, policy config.Policy) (report.Record, error) {
	u, err := engine.NormalizeTarget(target)
	if err != nil {
		return report.Record{}, err
	}

	var (
		service  issue.Service
		messages []issue.RequestResponse
	)
	if !opts.NoCapture {
		res, err := engine.Capture(ctx, client, target)
		if err != nil {
			return report.Record{}, err
		}
		tr := res.Transcript
		tr.Comment = opts.Comment
		service = tr.Service
		messages = append(messages, tr)
	}

	iss, err := issue.New(opts.Kind, service, u, opts.Severity, opts.Confidence, messages...)
	if err != nil {
		return report.Record{}, err
	}
	iss = report.ApplySeverityOverride(iss, policy.SeverityOverrides)

	return report.SanitizeRecord(report.FromIssue(iss)), nil
}

func buildClient(base *http.Client, policy config.Policy, targets []string) (*http.Client, *engine.MetricsTransport) {
	timeout := time.Duration(policy.TimeoutSeconds) * time.Second
	client := engine.NewHTTPClient(false, nil, timeout)
	if base != nil {
		cp := *base
		client = &cp
		if client.Transport == nil {
			client.Transport = http.DefaultTransport
		}
	}

	if policy.DelayMS > 0 {
		client.Transport = &engine.DelayedTransport{
			Transport: client.Transport,
			Delay:     time.Duration(policy.DelayMS) * time.Millisecond,
		}
	}
	if !policy.CrossDomain {
		client.Transport = &engine.DomainBoundaryTransport{
			Base:               client.Transport,
			AllowedRootDomains: rootDomains(targets),
		}
	}
	budget := policy.RequestBudget
	if budget == 0 {
		budget = int64(len(targets) * 2)
	}
	client.Transport = &engine.RequestBudgetTransport{
		Base: client.Transport,
		Max:  budget,
	}
	mt := &engine.MetricsTransport{Base: client.Transport}
	client.Transport = mt
	return client, mt
}

func normalizeTargets(raw []string) ([]string, error) {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		u, err := engine.NormalizeTarget(r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r, err)
		}
		s := u.String()
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out, nil
}

func rootDomains(targets []string) []string {
	seen := make(map[string]bool)
	var roots []string
	for _, t := range targets {
		u, err := engine.NormalizeTarget(t)
		if err != nil {
			continue
		}
		root := engine.RootDomain(u.Hostname())
		if root != "" && !seen[root] {
			seen[root] = true
			roots = append(roots, root)
		}
	}
	return roots
}

func writeReport(path string, opts Options, save func(string) error) error {
	if _, err := os.Stat(path); err == nil && opts.AllowPrompts {
		ok, err := ui.Confirm(fmt.Sprintf("%s%s%s", ui.ColorYellow, msges.GetUIMessage("OverwritePrompt", path), ui.ColorReset))
		if err != nil {
			return err
		}
		if !ok {
			return errors.New(msges.GetUIMessage("OverwriteAborted"))
		}
	}
	return save(path)
}
