package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ievis/pkg/pipeline"
)

// exportCommand runs the full pipeline and writes every requested format.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output string
		flags  pipelineFlags
	)

	cmd := &cobra.Command{
		Use:   "export [model.json|model.yaml]",
		Short: "Export scenes, meshes and topology diagrams",
		Long: `Export scenes, meshes and topology diagrams.

Formats:
  scene     placed elements, links, legend and bounds (JSON)
  mesh      triangle meshes of every shaped element (JSON)
  document  the model written back with derived coordinates
  layout    derived coordinates only
  dot       topology graph in Graphviz DOT
  svg, png, pdf
            rendered topology graph

With one format, -o names the output file. With several, -o is the base
path each format's extension is appended to.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.Config)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			runner, err := c.newRunner(cmd, flags.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()
			_, err = c.runExport(cmd.Context(), runner, args[0], output, opts)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	flags.bind(cmd, true)
	return cmd
}

// runExport executes the pipeline over input and writes the artifacts.
// When opts already carries a document, input only names the outputs.
// It returns the written paths.
func (c *CLI) runExport(ctx context.Context, runner *pipeline.Runner, input, output string, opts pipeline.Options) ([]string, error) {
	if opts.Document == nil {
		opts.Path = input
	} else {
		opts.Source = input
	}
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Exporting "+input+"...")
	spinner.Start()
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Export failed")
		return nil, err
	}
	spinner.Stop()
	if spinner.Cancelled() {
		return nil, ctx.Err()
	}

	formats := opts.Formats
	var written []string
	for _, f := range formats {
		path := outputPath(input, output, f, len(formats) == 1)
		if err := writeOutput(path, res.Artifacts[f]); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}

	printSuccess("Exported %s", input)
	for _, p := range written {
		printFile(p)
	}
	printStats(res.Stats, res.CacheInfo.LayoutHit && res.CacheInfo.ExportHit)
	printDrops(res.Parsed.Dropped)
	printIssues(res.Layout.Issues)
	return written, nil
}
