package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/developerstoolbox/pypi-extractor/pkg/pypi"
)

// packagesCommand lists the packages a PyPI user has published.
func (c *CLI) packagesCommand() *cobra.Command {
	var (
		user    string
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "packages [username]",
		Short: "List packages published by a PyPI user",
		Long: `List the name and summary of every package the given PyPI user has
published, in the order they appear on the user's profile page.`,
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

			prog := newProgress(loggerFromContext(cmd.Context()))
			packages, err := client.UserPackages(cmd.Context())
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Fetched package list for %s", username))

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(packages)
			}

			if len(packages) == 0 {
				printInfo("%s has no published packages", username)
				return nil
			}

			fmt.Println(StyleTitle.Render(fmt.Sprintf("Packages of %s", username)))
			for _, p := range packages {
				fmt.Println("  " + StyleValue.Render(p.Name))
				if p.Summary != "" {
					printDetail("  %s", p.Summary)
				}
			}
			printInfo("%d packages", len(packages))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "PyPI username (overrides config default)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")

	return cmd
}
