package resolver

import (
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/ipcrecipe/internal/config"
	"github.com/specialistvlad/ipcrecipe/internal/options"
	"github.com/specialistvlad/ipcrecipe/internal/reference"
	"github.com/specialistvlad/ipcrecipe/internal/settings"
	"github.com/zclconf/go-cty/cty"
)

// Resolve evaluates every conditional entry of r against opts and s.
func Resolve(r *config.Recipe, opts options.Values, s settings.Settings) (ResolvedConfiguration, error) {
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"option":   opts.Cty(),
			"settings": s.Cty(),
		},
	}

	out := ResolvedConfiguration{
		Dependencies:               []reference.Reference{},
		ToolRequirements:           []reference.Reference{},
		ToolchainVariables:         []ToolchainVariable{},
		ActivatedGeneratorContexts: []reference.Reference{},
		BuildContexts:              []BuildContext{},
	}

	for _, req := range r.Requires {
		ok, err := evalCondition(evalCtx, req.When, true)
		if err != nil {
			return ResolvedConfiguration{}, &ConditionError{Subject: "requires." + req.Ref.Name, Attr: "when", Msg: err.Error()}
		}
		if ok {
			out.Dependencies = append(out.Dependencies, req.Ref)
		}
	}

	for _, req := range r.ToolRequires {
		ok, err := evalCondition(evalCtx, req.When, true)
		if err != nil {
			return ResolvedConfiguration{}, &ConditionError{Subject: "tool_requires." + req.Ref.Name, Attr: "when", Msg: err.Error()}
		}
		if !ok {
			continue
		}
		activated, err := evalCondition(evalCtx, req.BuildContext, false)
		if err != nil {
			return ResolvedConfiguration{}, &ConditionError{Subject: "tool_requires." + req.Ref.Name, Attr: "build_context", Msg: err.Error()}
		}
		out.ToolRequirements = append(out.ToolRequirements, req.Ref)
		out.BuildContexts = append(out.BuildContexts, BuildContext{Ref: req.Ref, Activated: activated})
		if activated {
			out.ActivatedGeneratorContexts = append(out.ActivatedGeneratorContexts, req.Ref)
		}
	}

	for _, v := range r.ToolchainVariables {
		ok, err := evalCondition(evalCtx, v.When, true)
		if err != nil {
			return ResolvedConfiguration{}, &ConditionError{Subject: "toolchain_variable." + v.Key, Attr: "when", Msg: err.Error()}
		}
		if ok {
			out.ToolchainVariables = append(out.ToolchainVariables, ToolchainVariable{Key: v.Key, Value: v.Value})
		}
	}

	reference.Sort(out.Dependencies)
	reference.Sort(out.ToolRequirements)
	reference.Sort(out.ActivatedGeneratorContexts)
	sort.Slice(out.BuildContexts, func(i, j int) bool {
		return out.BuildContexts[i].Ref.Name < out.BuildContexts[j].Ref.Name
	})
	sort.Slice(out.ToolchainVariables, func(i, j int) bool {
		return out.ToolchainVariables[i].Key < out.ToolchainVariables[j].Key
	})

	return out, nil
}

// evalCondition evaluates expr as a bool. Only a missing expression yields
// absent; a null, unknown or non-bool result is an error.
func evalCondition(evalCtx *hcl.EvalContext, expr hcl.Expression, absent bool) (bool, error) {
	if expr == nil {
		return absent, nil
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return false, diags
	}
	if val.IsNull() || !val.IsWhollyKnown() || !val.Type().Equals(cty.Bool) {
		return false, errNotBool(val)
	}
	return val.True(), nil
}

type notBoolError struct {
	ty   cty.Type
	null bool
}

func (e notBoolError) Error() string {
	if e.null {
		return "expected a known bool, got null"
	}
	return "expected a known bool, got " + e.ty.FriendlyName()
}

func errNotBool(v cty.Value) error {
	return notBoolError{ty: v.Type(), null: v.IsNull()}
}
