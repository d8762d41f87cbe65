package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/developerstoolbox/pypi-extractor/pkg/pypi"
)

// infoCommand shows normalized metadata for one package.
func (c *CLI) infoCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "info <package>",
		Short: "Show metadata for one PyPI package",
		Long: `Fetch the registry's JSON metadata for a single package and show the
normalized fields: version, author, license, summary, home page, declared
dependencies and release history.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := pypi.New()

			prog := newProgress(loggerFromContext(cmd.Context()))
			details, err := client.PackageDetails(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Fetched metadata for %s", details.Name))

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(details)
			}

			printPackageDetails(details)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")

	return cmd
}

// printPackageDetails renders one package's details as labeled lines.
func printPackageDetails(d *pypi.PackageDetails) {
	fmt.Println(StyleTitle.Render(fmt.Sprintf("%s %s", d.Name, d.Version)))
	if d.Summary != "" {
		printDetail("%s", d.Summary)
	}

	author := d.Author
	if d.AuthorEmail != "" {
		author = strings.TrimSpace(fmt.Sprintf("%s <%s>", d.Author, d.AuthorEmail))
	}
	printKeyValue("author", author)
	printKeyValue("license", d.License)
	if d.HomePage != "" {
		printKeyValue("home page", d.HomePage)
	}
	printKeyValue("requires python", d.RequiresPython)

	if len(d.Dependencies) > 0 {
		printKeyValue("dependencies", "")
		for _, dep := range d.Dependencies {
			printDetail("%s", dep)
		}
	} else {
		printKeyValue("dependencies", "none declared")
	}

	if len(d.OlderVersions) > 0 {
		printKeyValue("older versions", fmt.Sprintf("%d", len(d.OlderVersions)))
	}
}
