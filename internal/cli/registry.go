package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depexport/pkg/config"
	"github.com/matzehuels/depexport/pkg/errors"
	"github.com/matzehuels/depexport/pkg/registry"
)

// registryCommand groups commands that talk to the components registry.
func (c *CLI) registryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Query the components registry",
	}
	cmd.AddCommand(c.registryGroupsCommand())
	return cmd
}

func (c *CLI) registryGroupsCommand() *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "groups",
		Short: "List the group prefixes the registry tracks",
		Long: `List the group prefixes the components registry tracks.

Only dependencies whose group starts with one of these prefixes are mapped
during a scan. The registry URL defaults to ` + config.EnvRegistryURL + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				url = strings.TrimSpace(os.Getenv(config.EnvRegistryURL))
			}
			if url == "" {
				return errors.New(errors.ErrCodeInvalidConfig, "no registry URL (use --registry-url or %s)", config.EnvRegistryURL)
			}

			logger := loggerFromContext(cmd.Context())
			client, err := registry.NewClient(url, registry.Options{Logger: logger})
			if err != nil {
				return err
			}
			defer client.Close()

			groups, err := client.SupportedGroups(cmd.Context())
			if err != nil {
				return err
			}
			c.printInfo("%d supported groups at %s", len(groups), client.URL())
			for _, g := range groups {
				fmt.Fprintln(c.Stdout, g)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "registry-url", "", "components registry base URL")
	return cmd
}
