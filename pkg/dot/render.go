package dot

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-graphviz"
)

var (
	availOnce sync.Once
	availErr  error
)

// Available reports whether the embedded Graphviz engine can be initialized.
// It fails fast with an instructive error so callers can check the rendering
// capability before building a graph. The probe runs once per process.
func Available(ctx context.Context) error {
	availOnce.Do(func() {
		gv, err := graphviz.New(ctx)
		if err != nil {
			availErr = fmt.Errorf("graphviz engine unavailable, rebuild with goccy/go-graphviz support: %w", err)
			return
		}
		_ = gv.Close()
	})
	return availErr
}

// RenderSVG renders the graph to SVG bytes.
func RenderSVG(ctx context.Context, g *Digraph) ([]byte, error) {
	return render(ctx, g, graphviz.SVG)
}

// RenderPNG renders the graph to PNG bytes.
func RenderPNG(ctx context.Context, g *Digraph) ([]byte, error) {
	return render(ctx, g, graphviz.PNG)
}

func render(ctx context.Context, g *Digraph, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(g.DOT()))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
