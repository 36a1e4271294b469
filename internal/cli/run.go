// Package cli contains the cobra commands of the renewbot binary.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/renewbot/internal/ports/primary"
	"github.com/example/renewbot/internal/wire"
)

// RunCmd returns the run command
func RunCmd() *cobra.Command {
	var testLogins bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Perform one renewal attempt",
		Long: `Perform one renewal attempt end to end:
- Skip everything while the post-renewal cooldown is active
- Search the mailbox for a pending renewal notice
- Log in to the portal (stored cookies first, credentials as fallback)
- Drive the PIN-protected extension transaction for the contract

With --test-logins only the mailbox and portal credentials are checked;
no renewal is attempted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.Cfg().Validate(); err != nil {
				return err
			}
			defer wire.MailChannel().Close()

			result, err := wire.RenewalService().Run(cmd.Context(), primary.RunRequest{
				TestLoginsOnly: testLogins,
			})
			if err != nil {
				return err
			}

			if result.Skipped {
				fmt.Printf("Nothing done: %s\n", result.SkipReason)
				return nil
			}

			fmt.Printf("Contract %s: %s", result.ContractID, result.Outcome)
			if result.NewExpiry != "" {
				fmt.Printf(", new expiry %s", result.NewExpiry)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().BoolVar(&testLogins, "test-logins", false, "only verify mailbox and portal credentials")

	return cmd
}
