package bot

import (
	"context"
	"errors"
	"fmt"
)

const (
	NodeIngest          = "ingest"
	NodeResolveSession  = "resolve_session"
	NodeDetectLanguage  = "detect_language"
	NodeClassify        = "classify"
	NodeMenu            = "menu"
	NodeItemInfo        = "item_info"
	NodeCart            = "cart"
	NodeCheckoutPreview = "checkout_preview"
	NodePlaceOrder      = "place_order"
	NodeBill            = "bill"
	NodeChat            = "chat"
	NodeFormat          = "format"
	End                 = "END"
)

var (
	ErrNodeRevisited = errors.New("bot: node visited twice")
	ErrUnknownNode   = errors.New("bot: unknown node")
	ErrNoEdge        = errors.New("bot: no outgoing edge")
)

// NodeFunc handles one step. A returned error is stored on the state and
// routing continues; branchers decide where an errored state goes.
type NodeFunc func(ctx context.Context, st *State) error

// Brancher picks the branch key of a conditional edge.
type Brancher func(st *State) string

type edge struct {
	from string
	key  string
}

// Graph is a table-driven DAG: handlers by node name and the next node by
// (node, branch key). Unconditional edges use the empty key.
type Graph struct {
	entry     string
	nodes     map[string]NodeFunc
	edges     map[edge]string
	branchers map[string]Brancher
}

func NewGraph(entry string) *Graph {
	return &Graph{
		entry:     entry,
		nodes:     make(map[string]NodeFunc),
		edges:     make(map[edge]string),
		branchers: make(map[string]Brancher),
	}
}

func (g *Graph) AddNode(name string, fn NodeFunc) {
	g.nodes[name] = fn
}

func (g *Graph) AddEdge(from, to string) {
	g.edges[edge{from: from}] = to
}

// AddConditionalEdges routes from a node by the key brancher returns.
func (g *Graph) AddConditionalEdges(from string, brancher Brancher, routes map[string]string) {
	g.branchers[from] = brancher
	for key, to := range routes {
		g.edges[edge{from: from, key: key}] = to
	}
}

// Run walks the graph from the entry node until End. Each node runs at most once.
func (g *Graph) Run(ctx context.Context, st *State) error {
	visited := make(map[string]bool, len(g.nodes))
	current := g.entry

	for current != End {
		if visited[current] {
			return fmt.Errorf("%w: %s", ErrNodeRevisited, current)
		}
		fn, ok := g.nodes[current]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownNode, current)
		}
		visited[current] = true
		st.Path = append(st.Path, current)

		if err := fn(ctx, st); err != nil {
			st.Err = err
		}

		next, err := g.next(current, st)
		if err != nil {
			return err
		}
		current = next
	}
	return nil
}

func (g *Graph) next(from string, st *State) (string, error) {
	key := ""
	if brancher, ok := g.branchers[from]; ok {
		key = brancher(st)
	}
	to, ok := g.edges[edge{from: from, key: key}]
	if !ok {
		return "", fmt.Errorf("%w: %s on %q", ErrNoEdge, from, key)
	}
	return to, nil
}
