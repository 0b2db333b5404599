package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/matzehuels/swmmcosim/pkg/cache"
	"github.com/matzehuels/swmmcosim/pkg/inp"
	"github.com/matzehuels/swmmcosim/pkg/topology"
)

// svgTTL bounds how long a cached render is reused across Graphviz upgrades.
const svgTTL = 30 * 24 * time.Hour

// loadNetwork reads a model file and builds its topology graph. With
// conduitsOnly set, regulators (orifices, weirs, outlets, pumps) are left
// out.
func (c *CLI) loadNetwork(path string, conduitsOnly bool) (*topology.Graph, error) {
	prog := newProgress(c.Logger)
	m, err := inp.Load(path)
	if err != nil {
		return nil, err
	}
	if conduitsOnly {
		m.Network.Orifices = nil
	}
	g, err := m.Graph()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	prog.done(fmt.Sprintf("Loaded %d nodes and %d links", g.Len(), g.LinkCount()))
	return g, nil
}

// =============================================================================
// graph
// =============================================================================

func (c *CLI) graphCommand() *cobra.Command {
	var (
		output   string
		lengths  bool
		from     string
		cacheDir string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "graph <model.inp>",
		Short: "Export the network topology as DOT or SVG",
		Long: `Export the conveyance network of a model file as a Graphviz graph.

Conduits become edges labeled with their ID; regulators are drawn dashed.
The output format follows the extension of --output (.dot or .svg); without
--output, DOT is written to stdout. SVG renders are cached by DOT content.`,
		Example: `  cosim graph network.inp
  cosim graph network.inp --lengths --from J-1 -o network.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadNetwork(args[0], false)
			if err != nil {
				return err
			}
			opts := topology.DOTOptions{Lengths: lengths}
			if from != "" {
				if opts.Highlight, err = topology.Reachable(g, from); err != nil {
					return err
				}
			}
			dot := topology.ToDOT(g, opts)

			if output == "" {
				_, err := fmt.Fprint(c.out, dot)
				return err
			}
			data := []byte(dot)
			if strings.EqualFold(filepath.Ext(output), ".svg") {
				if data, err = c.renderSVG(cmd.Context(), dot, cacheDir, noCache); err != nil {
					return err
				}
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			c.printer().file(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.dot or .svg)")
	cmd.Flags().BoolVar(&lengths, "lengths", false, "label edges with link lengths")
	cmd.Flags().StringVar(&from, "from", "", "highlight the nodes connected to this node")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "SVG render cache directory (default: user cache dir)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "always re-render SVG output")

	return cmd
}

// renderSVG renders dot through the render cache.
func (c *CLI) renderSVG(ctx context.Context, dot, dir string, disabled bool) ([]byte, error) {
	store := c.openCache(dir, disabled)
	defer store.Close()

	key := cache.Key("svg", []byte(dot))
	if svg, ok, err := store.Get(ctx, key); err != nil {
		c.Logger.Warn("render cache read failed", "err", err)
	} else if ok {
		c.Logger.Debug("render cache hit", "key", key)
		return svg, nil
	}

	prog := newProgress(c.Logger)
	svg, err := topology.RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	prog.done("Rendered SVG")
	if err := store.Set(ctx, key, svg, svgTTL); err != nil {
		c.Logger.Warn("render cache write failed", "err", err)
	}
	return svg, nil
}

func (c *CLI) openCache(dir string, disabled bool) cache.Cache {
	if disabled {
		return cache.NewNullCache()
	}
	if dir == "" {
		var err error
		if dir, err = cache.DefaultDir(appName); err != nil {
			c.Logger.Debug("no user cache dir, caching disabled", "err", err)
			return cache.NewNullCache()
		}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("render cache unavailable", "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// reach
// =============================================================================

func (c *CLI) reachCommand() *cobra.Command {
	var conduitsOnly bool

	cmd := &cobra.Command{
		Use:   "reach <model.inp> <node>",
		Short: "List the nodes connected to a node",
		Long: `List every node reachable from the given node through the network,
the node itself included, with its invert and adjacent links.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadNetwork(args[0], conduitsOnly)
			if err != nil {
				return err
			}
			ids, err := topology.Reachable(g, args[1])
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(ids))
			for _, id := range ids {
				n, _ := g.Node(id)
				links := make([]string, len(n.Neighbors))
				for i, nb := range n.Neighbors {
					links[i] = nb.Link + " " + iconArrow + " " + nb.Node
				}
				rows = append(rows, []string{id, formatNumber(n.Invert), strings.Join(links, ", ")})
			}

			p := c.printer()
			p.info("%s of %d nodes reachable from %s", StyleNumber.Render(fmt.Sprint(len(ids))), g.Len(), args[1])
			p.table([]string{"Node", "Invert", "Links"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&conduitsOnly, "conduits-only", false, "ignore orifices, weirs, outlets and pumps")
	return cmd
}

// =============================================================================
// tree
// =============================================================================

func (c *CLI) treeCommand() *cobra.Command {
	var conduitsOnly bool

	cmd := &cobra.Command{
		Use:   "tree <model.inp> <root>",
		Short: "Print the breadth-first spanning tree rooted at a node",
		Long: `Print the spanning tree found by a breadth-first walk from the root node.
Each entry shows the node and the length of the link to its parent.

Regulators have no length and cannot be tree edges; use --conduits-only for
models that contain them.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadNetwork(args[0], conduitsOnly)
			if err != nil {
				return err
			}
			t, err := topology.SpanningTree(g, args[1])
			if err != nil {
				return err
			}
			root, _ := t.Root()
			lt, err := renderTree(t, root)
			if err != nil {
				return err
			}
			p := c.printer()
			p.tree(lt)
			p.info("%d of %d nodes in tree", t.Size(), g.Len())
			return nil
		},
	}

	cmd.Flags().BoolVar(&conduitsOnly, "conduits-only", false, "ignore orifices, weirs, outlets and pumps")
	return cmd
}

// renderTree converts the subtree at ref into a lipgloss tree.
func renderTree(t *topology.Tree, ref topology.NodeRef) (*tree.Tree, error) {
	n, err := t.Node(ref)
	if err != nil {
		return nil, err
	}
	label := n.ID
	if n.Length > 0 {
		label += StyleDim.Render(" · " + formatNumber(n.Length))
	}
	out := tree.Root(label)

	children, err := t.Children(ref)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		sub, err := renderTree(t, child)
		if err != nil {
			return nil, err
		}
		if sub.Children().Length() == 0 {
			out.Child(sub.Value())
			continue
		}
		out.Child(sub)
	}
	return out, nil
}
