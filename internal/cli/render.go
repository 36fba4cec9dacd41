package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pipetrace/pipetrace/pkg/cache"
	"github.com/pipetrace/pipetrace/pkg/debug"
	"github.com/pipetrace/pipetrace/pkg/pipeline"
)

// Supported output formats.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPNG = "png"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output       string   // output file path (or base path for multiple formats)
	formats      []string // output formats: "dot", "svg", "png"
	composeNodes bool     // draw sequential composition as explicit nodes
	noCache      bool     // bypass the artifact cache
}

// renderCommand creates the render command for generating pipeline diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render <expression>",
		Short: "Render a pipeline expression as a diagram",
		Long: `Render parses a pipeline expression such as "bm25 >> qe >> bm25" and
draws its composition tree as a DOT, SVG, or PNG diagram.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr, c.Config.Render.Format)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			if !cmd.Flags().Changed("compose-nodes") {
				opts.composeNodes = c.Config.Render.ComposeNodes
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.composeNodes, "compose-nodes", false, "draw sequential composition as explicit nodes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, the configured default is used.
func parseFormats(s, fallback string) []string {
	if s == "" {
		return []string{fallback}
	}
	return strings.Split(s, ",")
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{formatDOT: true, formatSVG: true, formatPNG: true}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return fmt.Errorf("invalid format: %s (must be 'dot', 'svg', or 'png')", f)
		}
	}
	return nil
}

// runRender parses the expression and writes one file per requested format.
func (c *CLI) runRender(ctx context.Context, expr string, opts *renderOpts) error {
	pipe, err := pipeline.Parse(expr, builtinRegistry())
	if err != nil {
		return err
	}

	var drawOpts []debug.RenderOption
	if opts.composeNodes {
		drawOpts = append(drawOpts, debug.ComposeAsNode())
	}

	// Stats come from the structural graph, independent of export format.
	g, err := debug.Render(pipe, drawOpts...)
	if err != nil {
		return err
	}

	store, err := c.newCache(opts.noCache)
	if err != nil {
		return err
	}
	defer store.Close()

	prog := newProgress(c.Logger)
	anyCached := false
	for _, format := range opts.formats {
		cached, err := c.renderFormat(ctx, store, expr, pipe, format, opts, drawOpts)
		if err != nil {
			return err
		}
		anyCached = anyCached || cached
	}
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(opts.formats)))

	printStats(len(g.Nodes()), len(g.Edges()), anyCached)
	printNextStep("Run it", fmt.Sprintf("pipetrace run %q --input data.csv", expr))
	return nil
}

// renderFormat produces one artifact, consulting the cache first, and writes
// it to the derived output path. It reports whether the artifact was cached.
func (c *CLI) renderFormat(ctx context.Context, store cache.Cache, expr string, pipe pipeline.Transformer, format string, opts *renderOpts, drawOpts []debug.RenderOption) (bool, error) {
	key := cache.ArtifactKey(expr, cache.ArtifactKeyOpts{
		Format:        format,
		ComposeAsNode: opts.composeNodes,
	})

	data, hit, err := store.Get(ctx, key)
	if err != nil {
		c.Logger.Debugf("Cache lookup failed: %v", err)
	}
	if !hit {
		data, err = c.export(ctx, pipe, format, drawOpts)
		if err != nil {
			return false, err
		}
		if err := store.Set(ctx, key, data, 0); err != nil {
			c.Logger.Debugf("Cache store failed: %v", err)
		}
	}
	c.Logger.Debugf("Generated %s: %d bytes (cached=%v)", format, len(data), hit)

	path := outputPath(opts.output, expr, format, len(opts.formats) > 1)
	if opts.output == "" && c.Config.Render.OutDir != "" {
		path = filepath.Join(c.Config.Render.OutDir, path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	printFile(path)
	return hit, nil
}

// export produces the diagram bytes for a single format. Graphviz formats run
// behind a spinner since the first export pays the library's startup cost.
func (c *CLI) export(ctx context.Context, pipe pipeline.Transformer, format string, drawOpts []debug.RenderOption) ([]byte, error) {
	if format == formatDOT {
		s, err := debug.RenderDOT(pipe, drawOpts...)
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	}

	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s", format))
	spin.Start()

	var data []byte
	var err error
	switch format {
	case formatSVG:
		data, err = debug.RenderSVG(ctx, pipe, drawOpts...)
	case formatPNG:
		data, err = debug.RenderPNG(ctx, pipe, drawOpts...)
	default:
		spin.Stop()
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	if err != nil {
		if spin.Cancelled() {
			spin.Stop()
		} else {
			spin.StopWithError(fmt.Sprintf("Rendering %s failed", format))
		}
		return nil, err
	}
	spin.StopWithSuccess(fmt.Sprintf("Rendered %s", format))
	return data, nil
}

// outputPath derives the file path for one format. With multiple formats the
// --output value is treated as a base path and the extension is appended.
func outputPath(output, expr, format string, multi bool) string {
	if output == "" {
		return slugify(expr) + "." + format
	}
	if !multi {
		return output
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		output = strings.TrimSuffix(output, ext)
	}
	return output + "." + format
}

// slugify turns a pipeline expression into a safe file name stem.
func slugify(expr string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(expr) {
		switch {
		case 'a' <= r && r <= 'z' || '0' <= r && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash && b.Len() > 0:
			b.WriteByte('-')
			lastDash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "pipeline"
	}
	return s
}
