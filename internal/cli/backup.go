package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/salonbook/internal/backup"
	"github.com/mmynk/salonbook/internal/middleware"
)

func (a *app) backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Export clients and history to CSV files",
		Long: `Writes clients_backup_<timestamp>.csv and history_backup_<timestamp>.csv
to the backup directory. If a share command is configured it is run with
each file.`,
		Args: cobra.NoArgs,
		RunE: middleware.Logged(func(cmd *cobra.Command, args []string) error {
			artifacts, err := a.engine.RunBackup(rootContext())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			title(out, a.company.Profile(), "Backup complete")
			fmt.Fprintf(out, "Clients: %d -> %s\n", artifacts.ClientsCount, artifacts.ClientsLocation)
			fmt.Fprintf(out, "History: %d -> %s\n", artifacts.HistoryCount, artifacts.HistoryLocation)
			if artifacts.Shared {
				fmt.Fprintln(out, "Shared")
			}
			return nil
		}),
	}
}

func (a *app) restoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <clients.csv> <history.csv>",
		Short: "Restore clients and history from backup files",
		Long: `Upserts every row of a clients backup and then every row of a history
backup. Rows keep their ids, overwriting existing rows with the same id.
Rows that cannot be restored are reported and skipped.`,
		Args: cobra.RangeArgs(0, 2),
		RunE: middleware.Logged(func(cmd *cobra.Command, args []string) error {
			var picker backup.PathPicker
			if len(args) > 0 {
				picker.ClientsPath = args[0]
			}
			if len(args) > 1 {
				picker.HistoryPath = args[1]
			}

			out := cmd.OutOrStdout()
			report, err := a.engine.Restore(rootContext(), picker)
			if errors.Is(err, backup.ErrCancelled) {
				fmt.Fprintln(out, "Restore cancelled: both a clients file and a history file are needed")
				return nil
			}
			if err != nil {
				return err
			}

			title(out, a.company.Profile(), "Restore complete")
			fmt.Fprintf(out, "Clients: %d\n", report.ClientsUpserted)
			fmt.Fprintf(out, "History: %d\n", report.HistoryUpserted)
			if len(report.Failures) > 0 {
				fmt.Fprintf(out, "Skipped %d rows:\n", len(report.Failures))
				for _, f := range report.Failures {
					fmt.Fprintf(out, "  %v\n", f)
				}
			}
			return nil
		}),
	}
}
