package host

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/ipcrecipe/internal/ctxlog"
	"github.com/specialistvlad/ipcrecipe/internal/reference"
	"github.com/specialistvlad/ipcrecipe/internal/semver"
)

// ErrVersionConflict is returned when a package is declared twice in the
// same context with different versions.
var ErrVersionConflict = errors.New("version conflict")

// Node is one declaration in the graph. Tool nodes live in the build
// context, the others in the host context.
type Node struct {
	Ref  reference.Reference
	Tool bool
}

// Graph is an in-memory dependency graph builder.
type Graph struct {
	nodes  []Node
	byName map[string]int
}

func NewGraph() *Graph {
	return &Graph{byName: make(map[string]int)}
}

func (g *Graph) Require(ctx context.Context, ref reference.Reference) error {
	return g.add(ctx, Node{Ref: ref})
}

func (g *Graph) ToolRequire(ctx context.Context, ref reference.Reference) error {
	return g.add(ctx, Node{Ref: ref, Tool: true})
}

func (g *Graph) add(ctx context.Context, n Node) error {
	key := nodeKey(n)
	if idx, ok := g.byName[key]; ok {
		existing := g.nodes[idx].Ref
		a, err := existing.SemVer()
		if err != nil {
			return err
		}
		b, err := n.Ref.SemVer()
		if err != nil {
			return err
		}
		if !semver.Equal(a, b) {
			return fmt.Errorf("%w: %s already declared as %s", ErrVersionConflict, n.Ref, existing)
		}
		return nil
	}

	g.byName[key] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	ctxlog.FromContext(ctx).Debug("Dependency declared.", "ref", n.Ref.String(), "tool", n.Tool)
	return nil
}

// Context names the context a node is declared in: "build" or "host".
func (n Node) Context() string {
	if n.Tool {
		return "build"
	}
	return "host"
}

// String renders the node as context:name/version.
func (n Node) String() string {
	return n.Context() + ":" + n.Ref.String()
}

func nodeKey(n Node) string {
	return n.Context() + ":" + n.Ref.Name
}

// Nodes returns the declarations in order.
func (g *Graph) Nodes() []Node {
	return append([]Node(nil), g.nodes...)
}
