package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/siteplan/pkg/site"
)

func (c *CLI) siteCommand() *cobra.Command {
	var sitePath, format string

	cmd := &cobra.Command{
		Use:   "site",
		Short: "Print the effective site configuration",
		Long: `Site prints the default site, or the given site file merged over the
defaults, in TOML, YAML or JSON. The output is a valid --site file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSite(sitePath)
			if err != nil {
				return err
			}
			c.Logger.Debug("site", "width", cfg.Width, "height", cfg.Height, "buildable", cfg.Buildable())
			return site.Encode(os.Stdout, cfg, format)
		},
	}

	cmd.Flags().StringVar(&sitePath, "site", "", "site config file to merge over the defaults")
	cmd.Flags().StringVarP(&format, "format", "f", site.FormatTOML, "output format: toml, yaml, json")

	registerSiteCompletion(cmd)
	registerSiteFormatCompletion(cmd)

	return cmd
}
