package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MOYARU/cspissues/internal/app/output"
	"github.com/MOYARU/cspissues/internal/app/ui"
	msges "github.com/MOYARU/cspissues/internal/messages"
)

var showHTML string

var showCmd = &cobra.Command{
	Use:   "show <report.json>",
	Short: "Print a saved JSON issue report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := output.LoadJSONReport(args[0])
		if err != nil {
			return err
		}
		logger.Debug("report loaded", zap.String("path", args[0]), zap.Int("issues", len(doc.Issues)))

		for _, t := range doc.Targets {
			fmt.Printf("%s%s%s\n", ui.ColorWhite, msges.GetUIMessage("Target", t), ui.ColorReset)
		}
		output.PrintIssues(doc.Issues)
		output.PrintSummary(output.Summarize(doc.Issues))

		if showHTML != "" {
			if err := output.SaveHTMLReport(showHTML, doc); err != nil {
				return fmt.Errorf("failed to save HTML report: %w", err)
			}
			fmt.Printf("%s\n", msges.GetUIMessage("HTMLReportSaved", showHTML))
		}
		return nil
	},
}

func init() {
	showCmd.Flags().StringVar(&showHTML, "html", "", "Also render the report as HTML to this path")
}
