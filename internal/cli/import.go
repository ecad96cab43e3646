package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"indentflow/internal/domain"
	"indentflow/internal/repository/postgres"
	"indentflow/internal/service"
)

func (c *CLI) newImportCmd() *cobra.Command {
	var tenantSlug, email string

	cmd := &cobra.Command{
		Use:   "import FILE.xlsx",
		Short: "Import legacy indents from a workbook",
		Long: `Import indents from the first sheet of a workbook.

The rows are recorded in the audit trail under the given administrator.
Rows that fail to parse are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.connect(); err != nil {
				return err
			}
			actor, err := c.resolveAdmin(cmd.Context(), tenantSlug, email)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening workbook: %w", err)
			}
			defer func() { _ = f.Close() }()

			indentRepo := postgres.NewIndentRepo(c.db)
			seqSvc := service.NewSequenceService(postgres.NewSequenceRepo(c.db), indentRepo,
				postgres.NewPurchaseOrderRepo(c.db), postgres.NewLiftRepo(c.db), c.logger)
			svc := service.NewIndentService(indentRepo, postgres.NewVendorRepo(c.db),
				postgres.NewAuditRepo(c.db), seqSvc, nil, c.logger)

			report, err := svc.Import(cmd.Context(), actor, f)
			if err != nil {
				return err
			}
			if c.jsonOutput {
				return c.outputJSON(report)
			}
			c.printf("imported %d indents\n", report.Imported)
			for _, rowErr := range report.Errors {
				c.printf("  row %d: %s\n", rowErr.Row, rowErr.Message)
			}
			if len(report.Anomalies) > 0 {
				c.printf("%d imported indents have anomalies\n", len(report.Anomalies))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tenantSlug, "tenant", "", "tenant slug")
	cmd.Flags().StringVar(&email, "email", "", "administrator recorded as the importer")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// resolveAdmin looks up an active administrator and builds the actor the
// services expect.
func (c *CLI) resolveAdmin(ctx context.Context, tenantSlug, email string) (domain.Actor, error) {
	tenant, err := postgres.NewTenantRepo(c.db).GetBySlug(ctx, strings.ToLower(strings.TrimSpace(tenantSlug)))
	if err != nil {
		return domain.Actor{}, fmt.Errorf("tenant %q: %w", tenantSlug, err)
	}
	user, err := postgres.NewUserRepo(c.db).GetByEmail(ctx, tenant.ID, strings.TrimSpace(email))
	if err != nil {
		return domain.Actor{}, fmt.Errorf("user %q: %w", email, err)
	}
	if user.Role != domain.RoleAdmin || !user.IsActive {
		return domain.Actor{}, fmt.Errorf("user %q: %w", email, domain.ErrForbidden)
	}

	scope := user.FirmNameMatch
	if scope == "" {
		scope = domain.FirmMatchAll
	}
	return domain.Actor{
		TenantID: tenant.ID,
		UserID:   user.ID,
		Role:     user.Role,
		Scope:    domain.FirmScope(scope),
	}, nil
}
