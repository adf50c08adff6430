package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/queuebot/internal/wire"
)

// ClaimsCmd returns the claim inspection command tree.
func ClaimsCmd() *cobra.Command {
	claimsCmd := &cobra.Command{
		Use:   "claims",
		Short: "Inspect and purge live question claims",
	}

	claimsCmd.AddCommand(claimsListCmd())
	claimsCmd.AddCommand(claimsPurgeCmd())

	return claimsCmd
}

func claimsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List live claims",
		RunE: func(cmd *cobra.Command, args []string) error {
			claims, err := wire.ClaimRepository().List(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list claims: %w", err)
			}

			if len(claims) == 0 {
				fmt.Println("No live claims")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MESSAGE\tCLAIMANT\tCREATED")
			for _, claim := range claims {
				fmt.Fprintf(w, "%s\t%s\t%s\n", claim.MessageID, claim.ClaimantID, claim.CreatedAt)
			}
			return w.Flush()
		},
	}
}

func claimsPurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete all claims (normally done automatically at startup)",
		RunE: func(cmd *cobra.Command, args []string) error {
			deleted, err := wire.ClaimRepository().DeleteAll(context.Background())
			if err != nil {
				return fmt.Errorf("failed to purge claims: %w", err)
			}

			fmt.Printf("✓ Purged %d claim(s)\n", deleted)
			return nil
		},
	}
}
