package commands

import (
	"fmt"

	"jetcargo-backend/lib/servicetype"

	"github.com/spf13/cobra"
)

var classifyCtx servicetype.Context

func init() {
	flags := classifyCmd.Flags()
	flags.StringVar(&classifyCtx.FormID, "id", "", "The id of the form.")
	flags.StringSliceVar(&classifyCtx.FormClassList, "class", nil, "The classes of the form.")
	flags.StringVar(&classifyCtx.ModalText, "modal", "", "The text of the modal or title around the form.")
	flags.StringVar(&classifyCtx.PageURL, "url", "", "The url of the page the form is on.")
	flags.StringVar(&classifyCtx.PageText, "text", "", "The visible text of the page.")
	rootCmd.AddCommand(classifyCmd)
}

var classifyCmd = &cobra.Command{
	Use:   "classify [--id <id>] [--class <class>] [--modal <text>] [--url <url>] [--text <text>]",
	Short: "Prints the service type of a form described by its context.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		code := servicetype.Classify(classifyCtx)
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", code, code.Title())
	},
}
