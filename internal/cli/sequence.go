package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"indentflow/internal/numbering"
	"indentflow/internal/repository/postgres"
	"indentflow/internal/service"
)

func (c *CLI) newSequenceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sequence",
		Short: "Inspect and repair document number counters",
	}
	cmd.AddCommand(c.newSequenceAlignCmd())
	return cmd
}

func (c *CLI) newSequenceAlignCmd() *cobra.Command {
	var tenantSlug string

	cmd := &cobra.Command{
		Use:   "align",
		Short: "Advance counters past the highest stored numbers",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.connect(); err != nil {
				return err
			}
			tenant, err := postgres.NewTenantRepo(c.db).GetBySlug(cmd.Context(), strings.ToLower(strings.TrimSpace(tenantSlug)))
			if err != nil {
				return fmt.Errorf("tenant %q: %w", tenantSlug, err)
			}

			indentRepo := postgres.NewIndentRepo(c.db)
			svc := service.NewSequenceService(postgres.NewSequenceRepo(c.db), indentRepo,
				postgres.NewPurchaseOrderRepo(c.db), postgres.NewLiftRepo(c.db), c.logger)
			counters, err := svc.Align(cmd.Context(), tenant.ID)
			if err != nil {
				return err
			}

			if c.jsonOutput {
				return c.outputJSON(counters)
			}
			prefixes := make([]numbering.Prefix, 0, len(counters))
			for p := range counters {
				prefixes = append(prefixes, p)
			}
			sort.Slice(prefixes, func(i, j int) bool { return prefixes[i] < prefixes[j] })
			for _, p := range prefixes {
				c.printf("%-4s %d\n", p, counters[p])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tenantSlug, "tenant", "", "tenant slug")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}
