package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/siteplan/pkg/audit"
	"github.com/matzehuels/siteplan/pkg/energy"
	"github.com/matzehuels/siteplan/pkg/errors"
	siteio "github.com/matzehuels/siteplan/pkg/io"
)

type auditOpts struct {
	sitePath string
	strict   bool
}

func (c *CLI) auditCommand() *cobra.Command {
	var opts auditOpts

	cmd := &cobra.Command{
		Use:   "audit [layout.json]",
		Short: "Check a saved layout against the site rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAudit(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.sitePath, "site", "", "site config used when the layout omits its site")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit with an error when the layout has violations")

	registerSiteCompletion(cmd)

	return cmd
}

func (c *CLI) runAudit(_ context.Context, input string, opts auditOpts) error {
	doc, err := readDocument(input, opts.sitePath)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded layout", "path", input, "buildings", doc.Layout.Len())

	rep := audit.Summarize(doc.Violations)
	fmt.Println(StyleTitle.Render(input) + "  " + statusLabel(rep))
	printStats(doc.Layout.Len(), doc.Layout.TotalArea(), doc.Energy, false)
	fmt.Println()

	if !rep.Valid {
		fmt.Println(violationTable(doc.Violations, energy.DefaultWeights))
		printDetail("offending buildings: %v", rep.Offenders)
		fmt.Println()
	}
	printBreakdown(energy.DefaultWeights.Explain(doc.Layout, doc.Violations))

	if opts.strict && !rep.Valid {
		return errors.New(errors.ErrCodeInvalidInput, "%s: %s", input, rep.Summary)
	}
	return nil
}

// readDocument imports a layout file, defaulting its site to the config at
// sitePath (or the default site).
func readDocument(path, sitePath string) (siteio.Document, error) {
	cfg, err := loadSite(sitePath)
	if err != nil {
		return siteio.Document{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return siteio.Document{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout file %s not found", path)
		}
		return siteio.Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return siteio.ReadJSONSite(f, cfg)
}
