package commands

import (
	"fmt"
	"strings"

	"jetcargo-backend/lib/capture"
	"jetcargo-backend/lib/servicetype"
	"jetcargo-backend/lib/submission"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var inspectPageURL *string

func init() {
	inspectPageURL = inspectCmd.Flags().String("page-url", "", "The url to classify a local file as.")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <url|file> [--page-url <url>]",
	Short: "Lists the forms of a page with their service type and normalized fields.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(cmd.Context(), args[0], *inspectPageURL)
		if err != nil {
			return fmt.Errorf("load %s: %w", args[0], err)
		}

		forms := doc.Forms()
		if len(forms) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no forms found")
			return nil
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"#", "Form", "Service type", "Fields"})
		for _, f := range forms {
			sub := submission.Normalize(f.Fields())
			code := servicetype.Classify(capture.ClassifierContext(f))

			var fields []string
			for _, key := range sub.Keys() {
				fields = append(fields, fmt.Sprintf("%s=%s", key, sub[key]))
			}
			t.AppendRow(table.Row{
				f.Index(),
				f.ID(),
				code,
				strings.Join(fields, "\n"),
			})
			t.AppendSeparator()
		}
		t.Render()
		return nil
	},
}
