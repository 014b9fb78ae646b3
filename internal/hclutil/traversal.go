// Package hclutil holds small helpers over hcl/v2 traversals shared by the
// recipe loader.
package hclutil

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// TraversalKey generates a stable, canonical string representation for an
// hcl.Traversal, suitable for messages and map keys.
func TraversalKey(t hcl.Traversal) string {
	// e.g., option.build
	return string(hclwrite.TokensForTraversal(t).Bytes())
}

// AttrStep returns the attribute name of the step at index i, if that step
// is a plain attribute access.
func AttrStep(t hcl.Traversal, i int) (string, bool) {
	if i < 0 || i >= len(t) {
		return "", false
	}
	switch step := t[i].(type) {
	case hcl.TraverseRoot:
		return step.Name, true
	case hcl.TraverseAttr:
		return step.Name, true
	default:
		return "", false
	}
}
