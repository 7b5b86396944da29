// Package explain renders a HogQL AST as an indented tree, one node per
// line. Each line names the node type and the attributes that are not
// children, followed by "(children N)" when the node has any.
//
// Clause lists of a query are grouped under a label line so the tree
// shows which clause each expression belongs to:
//
//	SelectQuery (children 2)
//	 Columns (children 1)
//	  Field a
//	 From (children 1)
//	  TableExpr (children 1)
//	   Field events
package explain

import (
	"fmt"
	"strings"

	"github.com/tmilicic/posthog/ast"
)

// Explain returns the tree dump of node.
func Explain(node ast.Node) string {
	if node == nil {
		return ""
	}
	var sb strings.Builder
	e := &explainer{sb: &sb}
	// The explainer never fails; errors only come from the Visitor contract.
	_ = node.Accept(e)
	return sb.String()
}

// explainer implements ast.Visitor. Every Visit method writes its own
// line at the current depth and then its children one level deeper.
type explainer struct {
	sb    *strings.Builder
	depth int
}

var _ ast.Visitor = (*explainer)(nil)

func (e *explainer) line(children int, format string, args ...any) {
	e.sb.WriteString(strings.Repeat(" ", e.depth))
	fmt.Fprintf(e.sb, format, args...)
	if children > 0 {
		fmt.Fprintf(e.sb, " (children %d)", children)
	}
	e.sb.WriteString("\n")
}

// node writes label and then every child.
func (e *explainer) node(label string, children ...ast.Node) error {
	e.line(len(children), "%s", label)
	return e.nested(children)
}

func (e *explainer) nested(nodes []ast.Node) error {
	e.depth++
	defer func() { e.depth-- }()
	for _, n := range nodes {
		if err := n.Accept(e); err != nil {
			return err
		}
	}
	return nil
}

// section is one labelled group of children, such as the WHERE clause of
// a query. Empty sections are not printed.
type section struct {
	label string
	nodes []ast.Node
}

func (e *explainer) sections(label string, secs ...section) error {
	var present []section
	for _, s := range secs {
		if len(s.nodes) > 0 {
			present = append(present, s)
		}
	}
	e.line(len(present), "%s", label)

	e.depth++
	defer func() { e.depth-- }()
	for _, s := range present {
		if err := e.node(s.label, s.nodes...); err != nil {
			return err
		}
	}
	return nil
}

func exprs(es []ast.Expression) []ast.Node {
	nodes := make([]ast.Node, 0, len(es))
	for _, x := range es {
		if x != nil {
			nodes = append(nodes, x)
		}
	}
	return nodes
}

func expr(x ast.Expression) []ast.Node {
	if x == nil {
		return nil
	}
	return []ast.Node{x}
}

func orderExprs(os []*ast.OrderExpr) []ast.Node {
	nodes := make([]ast.Node, len(os))
	for i, o := range os {
		nodes[i] = o
	}
	return nodes
}

func settings(ss []*ast.Setting) []ast.Node {
	nodes := make([]ast.Node, len(ss))
	for i, s := range ss {
		nodes[i] = s
	}
	return nodes
}

// label joins the non-empty words of a node line.
func label(words ...string) string {
	var b strings.Builder
	for _, w := range words {
		if w == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w)
	}
	return b.String()
}

func flag(set bool, word string) string {
	if set {
		return word
	}
	return ""
}

func identNames(ids []*ast.Identifier) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.Name
	}
	return strings.Join(names, ", ")
}

func qualified(q *ast.QualifiedName) string {
	if q == nil {
		return ""
	}
	return q.String()
}
