// This file translates the decoded HCL recipe blocks into the
// format-agnostic config.Recipe, collecting every problem as a diagnostic.

package hcl_adapter

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/ipcrecipe/internal/config"
	"github.com/specialistvlad/ipcrecipe/internal/reference"
	"github.com/zclconf/go-cty/cty"
)

var variableKeyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func errorDiag(summary, detail string, subject *hcl.Range) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   detail,
		Subject:  subject,
	}
}

// presentExpr returns nil for an attribute the block leaves out. gohcl fills
// those with a synthetic static null, which is never native syntax.
func presentExpr(expr hcl.Expression) hcl.Expression {
	if _, ok := expr.(hclsyntax.Expression); ok {
		return expr
	}
	return nil
}

// cmakeNames detects packages whose generated CMake variables would clash.
type cmakeNames map[string]string

func (c cmakeNames) claim(kind, name string) *hcl.Diagnostic {
	stem := reference.CMakeName(name)
	if other, ok := c[stem]; ok {
		return errorDiag(
			"Conflicting package names",
			fmt.Sprintf("%s %q and %q both generate CMake variables named %s_*.", kind, other, name, stem),
			nil,
		)
	}
	c[stem] = name
	return nil
}

// translateRecipe converts the decoded file into the agnostic model.
func translateRecipe(root *recipeFile, filename string) (*config.Recipe, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	r := &config.Recipe{
		Name:    strings.TrimSpace(root.Name),
		Source:  filename,
		Options: &config.OptionSchema{},
	}
	if r.Name == "" {
		diags = append(diags, errorDiag("Missing recipe name", `The "name" attribute must not be empty.`, nil))
	}

	seenSettings := make(map[string]struct{})
	for _, s := range root.Settings {
		if _, dup := seenSettings[s]; dup {
			diags = append(diags, errorDiag("Duplicate setting", fmt.Sprintf("Setting %q is declared more than once.", s), nil))
			continue
		}
		seenSettings[s] = struct{}{}
		r.Settings = append(r.Settings, s)
	}

	if root.Options != nil {
		schema, optDiags := translateOptions(root.Options)
		diags = append(diags, optDiags...)
		r.Options = schema
	}

	scope := newConditionScope(r)

	seenTools := make(map[string]struct{})
	toolNames := make(cmakeNames)
	for _, b := range root.ToolRequires {
		if _, dup := seenTools[b.Name]; dup {
			diags = append(diags, errorDiag("Duplicate tool requirement", fmt.Sprintf("Tool %q is required more than once.", b.Name), nil))
			continue
		}
		seenTools[b.Name] = struct{}{}

		ref, err := reference.New(b.Name, b.Version)
		if err != nil {
			diags = append(diags, errorDiag("Invalid tool requirement", err.Error(), nil))
			continue
		}
		if d := toolNames.claim("Tools", b.Name); d != nil {
			diags = append(diags, d)
			continue
		}
		when, buildContext := presentExpr(b.When), presentExpr(b.BuildContext)
		diags = append(diags, scope.check(when, "when")...)
		diags = append(diags, scope.check(buildContext, "build_context")...)
		r.ToolRequires = append(r.ToolRequires, &config.Requirement{Ref: ref, When: when, BuildContext: buildContext})
	}

	seenDeps := make(map[string]struct{})
	depNames := make(cmakeNames)
	for _, b := range root.Requires {
		if _, dup := seenDeps[b.Name]; dup {
			diags = append(diags, errorDiag("Duplicate requirement", fmt.Sprintf("Package %q is required more than once.", b.Name), nil))
			continue
		}
		seenDeps[b.Name] = struct{}{}

		ref, err := reference.New(b.Name, b.Version)
		if err != nil {
			diags = append(diags, errorDiag("Invalid requirement", err.Error(), nil))
			continue
		}
		if d := depNames.claim("Packages", b.Name); d != nil {
			diags = append(diags, d)
			continue
		}
		when := presentExpr(b.When)
		diags = append(diags, scope.check(when, "when")...)
		r.Requires = append(r.Requires, &config.Requirement{Ref: ref, When: when})
	}

	seenVars := make(map[string]struct{})
	for _, b := range root.ToolchainVariables {
		if !variableKeyPattern.MatchString(b.Key) {
			diags = append(diags, errorDiag("Invalid toolchain variable", fmt.Sprintf("%q is not a valid CMake variable name.", b.Key), nil))
			continue
		}
		if _, dup := seenVars[b.Key]; dup {
			diags = append(diags, errorDiag("Duplicate toolchain variable", fmt.Sprintf("Variable %q is declared more than once.", b.Key), nil))
			continue
		}
		seenVars[b.Key] = struct{}{}
		if strings.IndexFunc(b.Value, isForbiddenControl) >= 0 {
			diags = append(diags, errorDiag("Invalid toolchain variable value", fmt.Sprintf("The value of %q contains a control character.", b.Key), nil))
			continue
		}

		when := presentExpr(b.When)
		diags = append(diags, scope.check(when, "when")...)
		r.ToolchainVariables = append(r.ToolchainVariables, &config.ToolchainVariable{Key: b.Key, Value: b.Value, When: when})
	}

	return r, diags
}

// isForbiddenControl reports control characters CMake has no escape for.
func isForbiddenControl(r rune) bool {
	return unicode.IsControl(r) && r != '\t' && r != '\n' && r != '\r'
}

// translateOptions builds the option schema. Defaults must be literal bools;
// an omitted default is false.
func translateOptions(b *optionsBlock) (*config.OptionSchema, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	schema := &config.OptionSchema{Version: b.Version}

	if b.Version < 1 {
		diags = append(diags, errorDiag("Invalid options version", "The options \"version\" must be a positive integer.", nil))
	}

	seen := make(map[string]struct{})
	for _, o := range b.Options {
		if !variableKeyPattern.MatchString(o.Name) {
			diags = append(diags, errorDiag("Invalid option name", fmt.Sprintf("%q is not a valid option name.", o.Name), nil))
			continue
		}
		if _, dup := seen[o.Name]; dup {
			diags = append(diags, errorDiag("Duplicate option", fmt.Sprintf("Option %q is declared more than once.", o.Name), nil))
			continue
		}
		seen[o.Name] = struct{}{}

		def := false
		if o.Default != nil {
			val, valDiags := o.Default.Value(nil)
			diags = append(diags, valDiags...)
			if valDiags.HasErrors() {
				continue
			}
			switch {
			case val.IsNull():
			case !val.IsKnown() || !val.Type().Equals(cty.Bool):
				diags = append(diags, errorDiag(
					"Invalid option default",
					fmt.Sprintf("The default of option %q must be true or false.", o.Name),
					o.Default.Range().Ptr(),
				))
				continue
			default:
				def = val.True()
			}
		}

		schema.Options = append(schema.Options, &config.OptionDefinition{
			Name:        o.Name,
			Description: o.Description,
			Default:     def,
		})
	}
	return schema, diags
}
