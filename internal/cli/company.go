package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/salonbook/internal/middleware"
	"github.com/mmynk/salonbook/internal/models"
	"github.com/mmynk/salonbook/internal/service"
)

func (a *app) companyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "company",
		Short: "Manage the business profile",
	}
	cmd.AddCommand(
		a.companyRegisterCmd(),
		a.companyShowCmd(),
		a.companyUpdateCmd(),
	)
	return cmd
}

func companyFlags(cmd *cobra.Command, c *models.Company) {
	cmd.Flags().StringVar(&c.NameCompany, "name", "", "business name")
	cmd.Flags().StringVar(&c.MainColor, "color", "", "branding color as #rgb or #rrggbb (default "+service.DefaultColor+")")
	cmd.Flags().StringVar(&c.LogoURL, "logo", "", "logo URL")
}

func (a *app) companyRegisterCmd() *cobra.Command {
	var company models.Company
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register the business",
		Args:  cobra.NoArgs,
		RunE: middleware.Logged(func(cmd *cobra.Command, args []string) error {
			if err := a.company.Register(rootContext(), &company); err != nil {
				return err
			}
			p := a.company.Profile()
			title(cmd.OutOrStdout(), p, fmt.Sprintf("Welcome, %s", p.Name))
			return nil
		}),
	}
	companyFlags(cmd, &company)
	return cmd
}

func (a *app) companyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the business profile",
		Args:  cobra.NoArgs,
		RunE: middleware.Logged(func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			p := a.company.Profile()
			if !p.Registered {
				fmt.Fprintln(out, "No business registered")
				return nil
			}
			title(out, p, p.Name)
			fmt.Fprintf(out, "Color: %s\n", p.Color)
			if p.LogoURL != "" {
				fmt.Fprintf(out, "Logo: %s\n", p.LogoURL)
			}
			return nil
		}),
	}
}

func (a *app) companyUpdateCmd() *cobra.Command {
	var update models.Company
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change the business profile",
		Args:  cobra.NoArgs,
		RunE: middleware.Logged(func(cmd *cobra.Command, args []string) error {
			p := a.company.Profile()
			if !p.Registered {
				return service.ErrNotRegistered
			}

			company := models.Company{
				ID:          p.CompanyID,
				NameCompany: p.Name,
				MainColor:   p.Color,
				LogoURL:     p.LogoURL,
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				company.NameCompany = update.NameCompany
			}
			if flags.Changed("color") {
				company.MainColor = update.MainColor
			}
			if flags.Changed("logo") {
				company.LogoURL = update.LogoURL
			}

			if err := a.company.Save(rootContext(), &company); err != nil {
				return err
			}
			title(cmd.OutOrStdout(), a.company.Profile(), "Profile saved")
			return nil
		}),
	}
	companyFlags(cmd, &update)
	return cmd
}
