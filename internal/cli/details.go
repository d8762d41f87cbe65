package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/developerstoolbox/pypi-extractor/pkg/pypi"
)

// detailsCommand fetches details for every package of a user.
func (c *CLI) detailsCommand() *cobra.Command {
	var (
		user    string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "details [username]",
		Short: "Fetch metadata for every package of a PyPI user",
		Long: `List the given user's packages and fetch normalized metadata for each
one, sequentially. The operation is all-or-nothing: a failure on any single
package aborts the whole run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := resolveUsername(args, user)
			if err != nil {
				return err
			}

			client, err := pypi.NewForUser(username)
			if err != nil {
				return err
			}

			spinner := newSpinner(cmd.Context(), fmt.Sprintf("Fetching packages of %s...", username))
			spinner.Start()

			details, err := client.AllPackageDetails(cmd.Context())
			if err != nil {
				spinner.StopWithError(fmt.Sprintf("Failed to fetch packages of %s", username))
				return err
			}
			spinner.StopWithSuccess(fmt.Sprintf("Fetched %d packages of %s", len(details), username))

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(details)
			}

			for i, d := range details {
				if i > 0 {
					fmt.Println()
				}
				printPackageDetails(d)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "PyPI username (overrides config default)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")

	return cmd
}
