package encode

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"

	"github.com/signadot/rpt/report"
)

// summaryFields are shown next to a node's type in an outline, in order.
var summaryFields = []string{"varName", "formula", "source", "condition", "url"}

// Outline renders the node tree of doc, labelling each node with its path
// and type.
func Outline(doc *report.Document) string {
	root := treeprint.NewWithRoot(fmt.Sprintf("%s (%s)", doc.Name, doc.Target))
	outline(root, doc.Children, nil)
	return root.String()
}

func outline(t treeprint.Tree, nodes []*report.Node, p report.Path) {
	for i, n := range nodes {
		cp := p.Child(i)
		label := cp.String() + " " + n.Type + summary(n)
		if len(n.Children) == 0 {
			t.AddNode(label)
			continue
		}
		outline(t.AddBranch(label), n.Children, cp)
	}
}

func summary(n *report.Node) string {
	var parts []string
	for _, k := range summaryFields {
		if s := n.Str(k); s != "" {
			parts = append(parts, k+"="+s)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}
