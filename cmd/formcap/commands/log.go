package commands

import (
	"fmt"
	"time"

	devenv "jetcargo-backend/dev/env"
	"jetcargo-backend/lib/sqliteutil"
	"jetcargo-backend/lib/timezone"
	"jetcargo-backend/services/relay/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	logDb    *string
	logLimit *int64
)

func init() {
	logDb = logCmd.Flags().String("db", "<dev_state>/relay.db", "The relay database to read.")
	logLimit = logCmd.Flags().Int64("limit", 20, "The amount of submissions to list.")
	rootCmd.AddCommand(logCmd)
}

var logCmd = &cobra.Command{
	Use:   "log [--db <path/to/relay.db>] [--limit <n>]",
	Short: "Lists the latest submissions received by the relay.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := devenv.ResolvePath(*logDb)
		if err != nil {
			return fmt.Errorf("resolve db path: %w", err)
		}
		database, err := sqliteutil.OpenDB(db.Schema, path)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer database.Close()

		rows, err := db.New(database).ListSubmissions(cmd.Context(), *logLimit)
		if err != nil {
			return err
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Received", "Client", "Service type", "Email", "Status", "Contact"})
		for _, row := range rows {
			t.AppendRow(table.Row{
				timezone.Stamp(time.Unix(row.ReceivedAt, 0)),
				row.ClientIp,
				row.ServiceType,
				row.Email,
				row.Status,
				row.ContactID,
			})
		}
		t.AppendFooter(table.Row{"", "", "", "", "Total", len(rows)})
		t.Render()
		return nil
	},
}
