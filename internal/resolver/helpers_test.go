package resolver

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/require"
)

// hclStringExpr returns an expression evaluating to a string, which is never
// a valid condition.
func hclStringExpr(t *testing.T) hcl.Expression {
	t.Helper()
	expr, diags := hclsyntax.ParseExpression([]byte(`settings.os`), "test.hcl", hcl.InitialPos)
	require.False(t, diags.HasErrors(), diags.Error())
	return expr
}
