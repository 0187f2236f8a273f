package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/siteplan/pkg/pipeline"
	"github.com/matzehuels/siteplan/pkg/site"
)

// siteExtensions are the config file types loadSite understands.
var siteExtensions = []string{"toml", "yaml", "yml", "json"}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for siteplan.

Besides subcommands and flags, the scripts complete render formats after
--format (one comma-separated entry at a time) and only offer .toml, .yaml
and .json files after --site.

  $ siteplan optimize --format svg,<TAB>
  svg,json  svg,text  svg,png  svg,pdf

Load for the current shell:

  $ source <(siteplan completion bash)
  $ source <(siteplan completion zsh)
  $ siteplan completion fish | source
  PS> siteplan completion powershell | Out-String | Invoke-Expression

To install permanently, write the script to your shell's completion
directory, e.g. /etc/bash_completion.d/siteplan or "${fpath[1]}/_siteplan".
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// registerSiteCompletion limits --site completion to config files.
func registerSiteCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("site", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return siteExtensions, cobra.ShellCompDirectiveFilterFileExt
	})
}

// registerFormatCompletion completes the comma-separated render formats
// accepted by --format.
func registerFormatCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return completeFormatList(toComplete), cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	})
}

// registerSiteFormatCompletion completes the single encoding of `site --format`.
func registerSiteFormatCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("format",
		cobra.FixedCompletions([]string{site.FormatTOML, site.FormatYAML, site.FormatJSON}, cobra.ShellCompDirectiveNoFileComp))
}

// completeFormatList returns candidates for the last entry of a
// comma-separated format list, skipping formats already named.
func completeFormatList(toComplete string) []string {
	prefix, partial := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix, partial = toComplete[:i+1], toComplete[i+1:]
	}
	chosen := strings.Split(strings.TrimSuffix(prefix, ","), ",")

	var out []string
	for _, f := range []string{pipeline.FormatSVG, pipeline.FormatJSON, pipeline.FormatText, pipeline.FormatPNG, pipeline.FormatPDF} {
		if slices.Contains(chosen, f) || !strings.HasPrefix(f, partial) {
			continue
		}
		out = append(out, prefix+f)
	}
	return out
}
