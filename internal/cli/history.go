package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/salonbook/internal/middleware"
	"github.com/mmynk/salonbook/internal/models"
	"github.com/mmynk/salonbook/internal/storage"
)

func (a *app) historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage the services done for clients",
	}
	cmd.AddCommand(
		a.historyAddCmd(),
		a.historyListCmd(),
		a.historyUpdateCmd(),
		a.historyDeleteCmd(),
	)
	return cmd
}

func (a *app) historyAddCmd() *cobra.Command {
	var entry models.HistoryEntry
	cmd := &cobra.Command{
		Use:   "add <client-id>",
		Short: "Record a service for a client",
		Args:  cobra.ExactArgs(1),
		RunE: middleware.Logged(func(cmd *cobra.Command, args []string) error {
			clientID, err := parseID(args[0])
			if err != nil {
				return err
			}
			entry.ClientID = clientID
			if err := a.history.Add(rootContext(), &entry); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "History entry %d added for client %d\n", entry.ID, clientID)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&entry.Description, "description", "d", "", "service description")
	cmd.Flags().StringVarP(&entry.Cost, "cost", "c", "", "cost charged")
	cmd.Flags().StringVar(&entry.Date, "date", "", "date as YYYY-MM-DD (default today)")
	return cmd
}

func (a *app) historyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <client-id>",
		Short: "List a client's history, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: middleware.Logged(func(cmd *cobra.Command, args []string) error {
			clientID, err := parseID(args[0])
			if err != nil {
				return err
			}
			entries, summary, err := a.history.List(rootContext(), clientID)
			if err != nil {
				return err
			}
			renderHistory(cmd.OutOrStdout(), a.company.Profile(), entries, summary)
			return nil
		}),
	}
}

func (a *app) historyUpdateCmd() *cobra.Command {
	var (
		update   models.HistoryEntry
		clientID int64
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a history entry",
		Args:  cobra.ExactArgs(1),
		RunE: middleware.Logged(func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := rootContext()
			entry, err := a.history.Get(ctx, id)
			if err != nil {
				return err
			}
			if entry == nil {
				return fmt.Errorf("history entry %d: %w", id, storage.ErrNotFound)
			}

			flags := cmd.Flags()
			if flags.Changed("client") {
				entry.ClientID = clientID
			}
			if flags.Changed("description") {
				entry.Description = update.Description
			}
			if flags.Changed("cost") {
				entry.Cost = update.Cost
			}
			if flags.Changed("date") {
				entry.Date = update.Date
			}
			if err := a.history.Update(ctx, entry); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "History entry %d updated\n", id)
			return nil
		}),
	}
	cmd.Flags().Int64Var(&clientID, "client", 0, "move the entry to another client")
	cmd.Flags().StringVarP(&update.Description, "description", "d", "", "service description")
	cmd.Flags().StringVarP(&update.Cost, "cost", "c", "", "cost charged")
	cmd.Flags().StringVar(&update.Date, "date", "", "date as YYYY-MM-DD")
	return cmd
}

func (a *app) historyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a history entry",
		Args:  cobra.ExactArgs(1),
		RunE: middleware.Logged(func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.history.Delete(rootContext(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "History entry %d deleted\n", id)
			return nil
		}),
	}
}
