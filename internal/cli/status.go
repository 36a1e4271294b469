package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/renewbot/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show persisted state and the last run",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := wire.StateStore().Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load state: %w", err)
			}

			fmt.Println("Renewbot Status")
			fmt.Println()
			printTimestamp("Last renewal", st.LastExtension)
			printTimestamp("Last failed login", st.LastFailedLogin)
			printTimestamp("Last captcha block", st.LastCaptchaFailure)
			if st.LastContractID != "" {
				fmt.Printf("  Last contract:      %s\n", st.LastContractID)
			}

			records, err := wire.HistoryRepository().List(context.Background(), 1)
			if err != nil {
				return fmt.Errorf("failed to load history: %w", err)
			}
			if len(records) == 0 {
				fmt.Println("\nNo runs recorded yet.")
				return nil
			}

			rec := records[0]
			fmt.Printf("\nLast run: contract %s, %s", rec.ContractID, rec.Outcome)
			if rec.NewExpiry != "" {
				fmt.Printf(", expiry %s", rec.NewExpiry)
			}
			if rec.Note != "" {
				fmt.Printf(" (%s)", rec.Note)
			}
			fmt.Println()
			return nil
		},
	}
}

func printTimestamp(label string, t *time.Time) {
	if t == nil {
		fmt.Printf("  %-19s (never)\n", label+":")
		return
	}
	fmt.Printf("  %-19s %s (%s ago)\n", label+":", t.Format(time.RFC3339), time.Since(*t).Round(time.Minute))
}
