package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ievis/pkg/pipeline"
)

// layoutCommand computes derived coordinates for a model document.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  pipelineFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [model.json|model.yaml]",
		Short: "Derive element coordinates from connectivity",
		Long: `Derive element coordinates from connectivity.

When every relationship carries coordinates the elements are placed from
them directly (seeded). Otherwise a force simulation positions the
elements. The result is written to <input>.layout.json.

Results are cached by document content and layout parameters.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, args[0], output, &flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	flags.bind(cmd, false)
	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, input, output string, flags *pipelineFlags) error {
	ctx := cmd.Context()
	opts := flags.options(cmd, c.Config)
	opts.Path = input
	opts.Logger = c.Logger
	if err := opts.ValidateForParse(); err != nil {
		return err
	}
	opts.SetLayoutDefaults()

	runner, err := c.newRunner(cmd, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	res, solids, err := pipeline.Parse(ctx, opts)
	if err != nil {
		return fmt.Errorf("parse %s: %w", input, err)
	}
	hash, err := pipeline.GraphHash(res, solids)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()
	l, hit, err := runner.LayoutWithCacheInfo(ctx, res.Graph, hash, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	if spinner.Cancelled() {
		return ctx.Err()
	}

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	path := outputPath(input, output, pipeline.FormatLayout, true)
	if err := writeOutput(path, data); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}

	printSuccess("Layout complete (%s, %d steps)", l.Mode, l.Steps)
	printFile(path)
	printStats(pipeline.Stats{
		Elements:      res.Graph.ElementCount(),
		Relationships: res.Graph.RelationshipCount(),
		Shaped:        len(res.Shaped),
		Dropped:       len(res.Dropped),
	}, hit)
	printIssues(l.Issues)
	printNewline()
	printNextStep("Export", appName+" export -f scene,svg "+input)
	return nil
}
