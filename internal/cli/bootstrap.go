package cli

import (
	"github.com/spf13/cobra"

	"indentflow/internal/repository/postgres"
	"indentflow/internal/service"
)

func (c *CLI) newBootstrapCmd() *cobra.Command {
	var input service.BootstrapInput

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Create a tenant and its first administrator",
		Long: `Create a tenant and an administrator that can see every firm.

Running it again with an existing slug adds another administrator to that tenant.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.connect(); err != nil {
				return err
			}
			svc := service.NewBootstrapService(postgres.NewTenantRepo(c.db), postgres.NewUserRepo(c.db))
			out, err := svc.Bootstrap(cmd.Context(), input)
			if err != nil {
				return err
			}
			if c.jsonOutput {
				return c.outputJSON(out)
			}
			c.printf("tenant %s (%s)\n", out.Tenant.Slug, out.Tenant.ID)
			c.printf("admin  %s (%s)\n", out.Admin.Email, out.Admin.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.TenantName, "tenant-name", "", "display name of the tenant")
	cmd.Flags().StringVar(&input.TenantSlug, "slug", "", "tenant slug used at login")
	cmd.Flags().StringVar(&input.Email, "email", "", "administrator email")
	cmd.Flags().StringVar(&input.Password, "password", "", "administrator password (min 8 characters)")
	cmd.Flags().StringVar(&input.FullName, "full-name", "", "administrator full name")
	for _, name := range []string{"tenant-name", "slug", "email", "password", "full-name"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
