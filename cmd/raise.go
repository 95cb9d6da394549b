package cmd

import (
	"github.com/spf13/cobra"

	"github.com/MOYARU/cspissues/internal/app/raise"
	"github.com/MOYARU/cspissues/internal/issue"
)

var (
	raiseSeverity   string
	raiseConfidence string
	raiseComment    string
	raiseJSON       bool
	raiseHTML       bool
	raiseOut        string
	raiseNoCapture  bool
	raiseQuiet      bool
)

var raiseCmd = &cobra.Command{
	Use:   "raise <kind> <url>...",
	Short: "Raise one issue of the given kind for each URL",
	Long: `Raise one issue of the given kind for each URL. Each URL is fetched once
and the raw request/response pair is attached to the issue as evidence.

Kinds: wildcard, unsafe, insecure, missing, deprecated (or the full kind ID).`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := issue.ParseKind(args[0])
		if err != nil {
			return err
		}
		severity, err := issue.ParseSeverity(raiseSeverity)
		if err != nil {
			return err
		}
		confidence, err := issue.ParseConfidence(raiseConfidence)
		if err != nil {
			return err
		}

		_, err = raise.Run(cmd.Context(), raise.Options{
			Kind:         kind,
			Targets:      args[1:],
			Severity:     severity,
			Confidence:   confidence,
			Comment:      raiseComment,
			NoCapture:    raiseNoCapture,
			JSONOutput:   raiseJSON,
			HTMLOutput:   raiseHTML,
			OutPath:      raiseOut,
			Quiet:        raiseQuiet,
			AllowPrompts: true,
			Logger:       logger,
		})
		return err
	},
}

func init() {
	raiseCmd.Flags().StringVar(&raiseSeverity, "severity", "medium", "Issue severity: high, medium, low, information, false positive")
	raiseCmd.Flags().StringVar(&raiseConfidence, "confidence", "firm", "Issue confidence: certain, firm, tentative")
	raiseCmd.Flags().StringVar(&raiseComment, "comment", "", "Comment attached to each captured transcript")
	raiseCmd.Flags().BoolVar(&raiseJSON, "json", false, "Save issues as a JSON report")
	raiseCmd.Flags().BoolVar(&raiseHTML, "html", false, "Save issues as an HTML report")
	raiseCmd.Flags().StringVarP(&raiseOut, "out", "o", "", "Report file path (default: generated from target and time)")
	raiseCmd.Flags().BoolVar(&raiseNoCapture, "no-capture", false, "Raise issues without fetching the URLs")
	raiseCmd.Flags().BoolVarP(&raiseQuiet, "quiet", "q", false, "Suppress console output")
}
