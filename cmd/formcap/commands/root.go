package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"jetcargo-backend/lib/form/htmlform"
	"jetcargo-backend/lib/telemetry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var verbose *bool

var rootCmd = &cobra.Command{
	Use:   "formcap",
	Short: "formcap captures, classifies and delivers Jet Cargo website forms.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
	SilenceUsage: true,
}

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

// loadDocument fetches source when it is an http(s) url, otherwise it is
// read as a local html file. pageURL replaces the url the document claims
// to be at when it is not empty.
func loadDocument(ctx context.Context, source, pageURL string) (*htmlform.Document, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		doc, err := htmlform.Fetch(ctx, htmlform.NewClient(), source)
		if err != nil {
			return nil, err
		}
		return doc, nil
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if pageURL == "" {
		pageURL = "file://" + source
	}
	return htmlform.Parse(ctx, f, pageURL)
}
