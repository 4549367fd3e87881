package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/docnet/pkg/render"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	config   string // configuration file path
	output   string // output file path; empty means stdout (dot only)
	format   string // "dot" or "svg"
	detailed bool   // include vertex fields in node labels
}

// newRenderCmd creates the render command, which exports the configured
// snapshot's graph as Graphviz DOT or renders it to SVG.
func newRenderCmd() *cobra.Command {
	opts := renderOpts{format: formatDOT}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the graph as DOT or SVG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != formatDOT && opts.format != formatSVG {
				return fmt.Errorf("unknown format %q (want dot or svg)", opts.format)
			}
			if opts.format == formatSVG && opts.output == "" {
				return fmt.Errorf("svg output requires --output")
			}
			return runRender(cmd, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "configuration file (default docnet.toml)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout for dot)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot (default), svg")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include vertex fields in node labels")
	return cmd
}

func runRender(cmd *cobra.Command, opts *renderOpts) error {
	ctx := cmd.Context()

	s, err := openStore(ctx, opts.config)
	if err != nil {
		return err
	}
	defer s.Close()

	dot := render.ToDOT(s, render.Options{Detailed: opts.detailed})

	var data []byte
	switch opts.format {
	case formatSVG:
		p := newProgress(loggerFromContext(ctx))
		if data, err = render.ToSVG(dot); err != nil {
			return err
		}
		p.done("Rendered SVG")
	default:
		data = []byte(dot)
	}

	if opts.output == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	loggerFromContext(ctx).Info("wrote output", "path", opts.output, "bytes", len(data))
	return nil
}
