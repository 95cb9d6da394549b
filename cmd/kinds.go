package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/MOYARU/cspissues/internal/app/ui"
	"github.com/MOYARU/cspissues/internal/issue"
	msges "github.com/MOYARU/cspissues/internal/messages"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the CSP issue kinds that can be raised",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printKinds(cmd.OutOrStdout())
		return nil
	},
}

func printKinds(w io.Writer) {
	fmt.Fprintf(w, "%s%s%s\n", ui.ColorWhite, msges.GetUIMessage("KindsTitle"), ui.ColorReset)
	for _, k := range issue.Kinds() {
		text, _ := msges.GetIssueText(string(k))
		fmt.Fprintf(w, " %-11s %-24s %s\n", k.Slug(), k, text.Name)
	}
}
