package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/salonbook/internal/middleware"
	"github.com/mmynk/salonbook/internal/storage"
)

func (a *app) clientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage clients",
	}
	cmd.AddCommand(
		a.clientAddCmd(),
		a.clientListCmd(),
		a.clientShowCmd(),
		a.clientUpdateCmd(),
		a.clientDeleteCmd(),
	)
	return cmd
}

func (a *app) clientAddCmd() *cobra.Command {
	var name, phone string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a client",
		Args:  cobra.NoArgs,
		RunE: middleware.Logged(func(cmd *cobra.Command, args []string) error {
			c, err := a.clients.Create(rootContext(), name, phone)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Client %d created\n", c.ID)
			return nil
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "client name")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	return cmd
}

func (a *app) clientListCmd() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients, optionally filtered by name or phone",
		Args:  cobra.NoArgs,
		RunE: middleware.Logged(func(cmd *cobra.Command, args []string) error {
			clients, err := a.clients.List(rootContext(), search)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			p := a.company.Profile()
			if p.Registered {
				title(out, p, p.Name)
			}
			renderClients(out, p, clients)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "substring of name or phone")
	return cmd
}

func (a *app) clientShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a client and their service history",
		Args:  cobra.ExactArgs(1),
		RunE: middleware.Logged(func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := rootContext()
			c, err := a.clients.Get(ctx, id)
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("client %d: %w", id, storage.ErrNotFound)
			}
			entries, summary, err := a.history.List(ctx, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			p := a.company.Profile()
			title(out, p, c.Name)
			if c.Phone != "" {
				fmt.Fprintf(out, "Phone: %s\n", c.Phone)
			}
			renderHistory(out, p, entries, summary)
			return nil
		}),
	}
}

func (a *app) clientUpdateCmd() *cobra.Command {
	var name, phone string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a client's name or phone",
		Args:  cobra.ExactArgs(1),
		RunE: middleware.Logged(func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := rootContext()
			c, err := a.clients.Get(ctx, id)
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("client %d: %w", id, storage.ErrNotFound)
			}

			if cmd.Flags().Changed("name") {
				c.Name = name
			}
			if cmd.Flags().Changed("phone") {
				c.Phone = phone
			}
			if err := a.clients.Update(ctx, c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Client %d updated\n", c.ID)
			return nil
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&phone, "phone", "", "new phone (empty clears it)")
	return cmd
}

func (a *app) clientDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a client and all of their history",
		Args:  cobra.ExactArgs(1),
		RunE: middleware.Logged(func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.clients.Delete(rootContext(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Client %d deleted\n", id)
			return nil
		}),
	}
}
