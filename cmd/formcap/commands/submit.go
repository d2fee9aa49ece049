package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	devenv "jetcargo-backend/dev/env"
	"jetcargo-backend/lib/capture"
	"jetcargo-backend/lib/restyutil"
	"jetcargo-backend/lib/telemetry"
	"jetcargo-backend/lib/validate"
	"jetcargo-backend/lib/webhook"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

const webhookEnv = "JETCARGO_WEBHOOK_URL"

var (
	submitForm     *int
	submitSet      *[]string
	submitWebhook  *string
	submitReferrer *string
	submitPageURL  *string
	submitDryRun   *bool
	submitTimeout  *time.Duration
)

func init() {
	flags := submitCmd.Flags()
	submitForm = flags.Int("form", 0, "The index of the form on the page.")
	submitSet = flags.StringArray("set", nil, "Fill in a field, as name=value. May be repeated.")
	submitWebhook = flags.String("webhook", "", fmt.Sprintf("The webhook to deliver to, defaults to $%s.", webhookEnv))
	submitReferrer = flags.String("referrer", "", "The referrer to record.")
	submitPageURL = flags.String("page-url", "", "The url to classify a local file as.")
	submitDryRun = flags.Bool("dry-run", false, "Print the submission instead of delivering it.")
	submitTimeout = flags.Duration("timeout", 30*time.Second, "The webhook request timeout.")
	rootCmd.AddCommand(submitCmd)
}

func parseAssignment(s string) (string, string, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("expected name=value, got %q", s)
	}
	return name, value, nil
}

var submitCmd = &cobra.Command{
	Use:   "submit <url|file> [--form <index>] [--set name=value]... [--webhook <url>] [--dry-run]",
	Short: "Fills in a form of a page, captures it and delivers it to the webhook.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(cmd.Context(), args[0], *submitPageURL)
		if err != nil {
			return fmt.Errorf("load %s: %w", args[0], err)
		}

		forms := doc.Forms()
		if *submitForm < 0 || *submitForm >= len(forms) {
			return fmt.Errorf("form %d does not exist, the page has %d forms", *submitForm, len(forms))
		}
		f := forms[*submitForm]
		for _, assignment := range *submitSet {
			name, value, err := parseAssignment(assignment)
			if err != nil {
				return err
			}
			f.Set(name, value)
		}

		meta := func() capture.Meta {
			return capture.Meta{
				UserAgent: "formcap",
				Referrer:  *submitReferrer,
			}
		}
		out := cmd.OutOrStdout()

		if *submitDryRun {
			sub := capture.Build(f, meta())
			t := newTable(out)
			t.AppendHeader(table.Row{"Key", "Value"})
			for _, key := range sub.Keys() {
				t.AppendRow(table.Row{key, sub[key]})
			}
			t.Render()
			for _, problem := range validate.Submission(sub) {
				fmt.Fprintln(out, "invalid:", problem)
			}
			return nil
		}

		url := *submitWebhook
		if url == "" {
			url = os.Getenv(webhookEnv)
		}
		if url == "" {
			return errors.New("no webhook given, use --webhook or $" + webhookEnv)
		}

		options := webhook.Options{Url: url, Timeout: *submitTimeout}
		if *verbose {
			output, err := restyutil.NewFilesystemOutput(filepath.Join(devenv.StatePrefix, "resty", "webhook"))
			if err != nil {
				return err
			}
			options.Transcript = output
		}
		client := webhook.NewClient(options)
		submitter := capture.NewSubmitter(client, telemetry.SlogAPI{}, meta)
		res, err := submitter.Submit(cmd.Context(), f, &capture.Guard{})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s (contact %s)\n", res.Message, res.ContactId)
		return nil
	},
}
