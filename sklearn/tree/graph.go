package tree

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/YuminosukeSato/weaklearn/pkg/errors"
	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

// DrawGraph builds a graphviz graph of the stump: one node for the split
// attribute and one box per bucket with its value range and label.
// The caller must Close both returned values.
func (s *Stump) DrawGraph() (*graphviz.Graphviz, *cgraph.Graph, error) {
	gv := graphviz.New()
	graph, err := gv.Graph()
	if err != nil {
		gv.Close()
		return nil, nil, errors.Wrap(err, "failed to create graph")
	}

	if s.OneClass {
		leaf, err := graph.CreateNode("root")
		if err != nil {
			return nil, nil, closeGraph(gv, graph, err)
		}
		leaf.Set("label", fmt.Sprintf("class %d", s.DefaultClass))
		leaf.Set("shape", "box")
		return gv, graph, nil
	}

	root, err := graph.CreateNode("root")
	if err != nil {
		return nil, nil, closeGraph(gv, graph, err)
	}
	root.Set("label", fmt.Sprintf("x[%d]", s.SplitColumn))

	for i, b := range s.Buckets {
		node, err := graph.CreateNode(fmt.Sprintf("bucket_%d", i))
		if err != nil {
			return nil, nil, closeGraph(gv, graph, err)
		}
		node.Set("label", fmt.Sprintf("%s\nclass %d", s.bucketRange(i), b.Label))
		node.Set("shape", "box")
		if _, err := graph.CreateEdge(fmt.Sprintf("edge_%d", i), root, node); err != nil {
			return nil, nil, closeGraph(gv, graph, err)
		}
	}
	return gv, graph, nil
}

// bucketRange describes the values that fall into bucket i.
func (s *Stump) bucketRange(i int) string {
	lo := s.Buckets[i].Threshold
	hi := math.Inf(1)
	if i+1 < len(s.Buckets) {
		hi = s.Buckets[i+1].Threshold
	}
	if i == 0 {
		lo = math.Inf(-1)
	}
	return fmt.Sprintf("[%g, %g)", lo, hi)
}

func closeGraph(gv *graphviz.Graphviz, graph *cgraph.Graph, cause error) error {
	graph.Close()
	gv.Close()
	return errors.Wrap(cause, "failed to build stump graph")
}

// RenderGraph writes the stump graph to w in the given format
// (graphviz.XDOT, graphviz.SVG, graphviz.PNG or graphviz.JPG).
func (s *Stump) RenderGraph(format graphviz.Format, w io.Writer) error {
	gv, graph, err := s.DrawGraph()
	if err != nil {
		return err
	}
	defer gv.Close()
	defer graph.Close()

	if err := gv.Render(graph, format, w); err != nil {
		return errors.Wrap(err, "failed to render stump graph")
	}
	return nil
}

// SaveGraph renders the stump graph to filename, picking the format from
// the extension: .svg, .png, .jpg/.jpeg or .dot.
func (s *Stump) SaveGraph(filename string) error {
	format, ok := map[string]graphviz.Format{
		".svg":  graphviz.SVG,
		".png":  graphviz.PNG,
		".jpg":  graphviz.JPG,
		".jpeg": graphviz.JPG,
		".dot":  graphviz.XDOT,
	}[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return errors.Wrapf(errors.ErrUnsupportedFormat, "graph file %s", filename)
	}

	gv, graph, err := s.DrawGraph()
	if err != nil {
		return err
	}
	defer gv.Close()
	defer graph.Close()

	if err := gv.RenderFilename(graph, format, filename); err != nil {
		return errors.Wrapf(err, "failed to render stump graph to %s", filename)
	}
	return nil
}
