package parser

import (
	"github.com/tmilicic/posthog/ast"
	"github.com/tmilicic/posthog/internal/explain"
)

// Explain returns an indented dump of the tree rooted at node, one node
// per line.
func Explain(node ast.Node) string {
	return explain.Explain(node)
}
