package hcl_adapter

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/ipcrecipe/internal/config"
	"github.com/specialistvlad/ipcrecipe/internal/hclutil"
	"github.com/zclconf/go-cty/cty"
)

// conditionScope statically checks `when` and `build_context` expressions
// against the options and settings a recipe declares. Values are unknown
// during the check, so only references and result types are validated.
type conditionScope struct {
	declared map[string]map[string]struct{}
	evalCtx  *hcl.EvalContext
}

func newConditionScope(r *config.Recipe) *conditionScope {
	options := make(map[string]struct{})
	optionAttrs := make(map[string]cty.Value)
	for _, name := range r.Options.Names() {
		options[name] = struct{}{}
		optionAttrs[name] = cty.UnknownVal(cty.Bool)
	}

	settings := make(map[string]struct{})
	settingAttrs := make(map[string]cty.Value)
	for _, name := range r.Settings {
		settings[name] = struct{}{}
		settingAttrs[name] = cty.UnknownVal(cty.String)
	}

	return &conditionScope{
		declared: map[string]map[string]struct{}{
			"option":   options,
			"settings": settings,
		},
		evalCtx: &hcl.EvalContext{
			Variables: map[string]cty.Value{
				"option":   objectOrEmpty(optionAttrs),
				"settings": objectOrEmpty(settingAttrs),
			},
		},
	}
}

func objectOrEmpty(attrs map[string]cty.Value) cty.Value {
	if len(attrs) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(attrs)
}

func (s *conditionScope) check(expr hcl.Expression, attr string) hcl.Diagnostics {
	if expr == nil {
		return nil
	}

	var diags hcl.Diagnostics
	for _, trav := range expr.Variables() {
		key := hclutil.TraversalKey(trav)
		declared, ok := s.declared[trav.RootName()]
		if !ok {
			diags = append(diags, errorDiag(
				"Unknown variable",
				fmt.Sprintf("%q in %q may only reference option.<name> or settings.<name>.", key, attr),
				trav.SourceRange().Ptr(),
			))
			continue
		}
		name, ok := hclutil.AttrStep(trav, 1)
		if !ok {
			diags = append(diags, errorDiag(
				"Invalid reference",
				fmt.Sprintf("%q in %q must name a single option or setting.", key, attr),
				trav.SourceRange().Ptr(),
			))
			continue
		}
		if _, ok := declared[name]; !ok {
			diags = append(diags, errorDiag(
				"Undeclared reference",
				fmt.Sprintf("%q in %q refers to something the recipe does not declare.", key, attr),
				trav.SourceRange().Ptr(),
			))
		}
	}
	if diags.HasErrors() {
		return diags
	}

	val, valDiags := expr.Value(s.evalCtx)
	diags = append(diags, valDiags...)
	if valDiags.HasErrors() {
		return diags
	}
	if val.IsNull() {
		return append(diags, errorDiag(
			"Condition is null",
			fmt.Sprintf("%q must evaluate to true or false; omit it instead of setting it to null.", attr),
			expr.Range().Ptr(),
		))
	}
	if !val.Type().Equals(cty.Bool) {
		diags = append(diags, errorDiag(
			"Condition is not a bool",
			fmt.Sprintf("%q must evaluate to true or false, got %s.", attr, val.Type().FriendlyName()),
			expr.Range().Ptr(),
		))
	}
	return diags
}
