package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ievis/pkg/pipeline"
)

// inspectCommand parses a document and reports what survived the parse.
func (c *CLI) inspectCommand() *cobra.Command {
	var required bool

	cmd := &cobra.Command{
		Use:     "inspect [model.json|model.yaml]",
		Aliases: []string{"parse"},
		Short:   "Parse a model document and report its contents",
		Long: `Parse a model document and report its contents.

Elements without complete geometry and relationships naming unknown
elements are dropped with a reason; everything else is listed by kind.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd, args[0], required)
		},
	}
	cmd.Flags().BoolVar(&required, "require-geometry", false, "fail when no element has complete geometry")
	return cmd
}

func (c *CLI) runInspect(cmd *cobra.Command, input string, required bool) error {
	prog := newProgress(loggerFromContext(cmd.Context()))
	opts := pipeline.Options{Path: input, RequireGeometry: required, Logger: c.Logger}
	if err := opts.ValidateForParse(); err != nil {
		return err
	}
	res, solids, err := pipeline.Parse(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("parse %s: %w", input, err)
	}
	g := res.Graph
	info := g.Info()
	prog.done("parsed document", "source", input, "elements", g.ElementCount())

	printSuccess("%s", StyleTitle.Render(info.Name))
	if info.Description != "" {
		printDetail("%s", info.Description)
	}
	printKeyValue("type", string(info.Type))
	printKeyValue("population", orDash(info.Population))
	printKeyValue("elements", fmt.Sprint(g.ElementCount()))
	printKeyValue("relationships", fmt.Sprint(g.RelationshipCount()))
	printKeyValue("shaped", orDash(strings.Join(res.Shaped, ", ")))
	printKeyValue("solids", fmt.Sprint(len(solids)))
	printKeyValue("orphans", orDash(strings.Join(g.Orphans(), ", ")))
	printKeyValue("unplaced", orDash(strings.Join(pipeline.Unplaced(g), ", ")))
	if res.NoGeometricData {
		printWarning("no element has complete geometry; exports fall back to topology")
	}
	printDrops(res.Dropped)
	printNewline()
	printNextStep("Export", appName+" export "+input)
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
