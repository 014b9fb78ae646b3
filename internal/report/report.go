// Package report renders a resolved configuration for people and for
// other tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/ipcrecipe/internal/options"
	"github.com/specialistvlad/ipcrecipe/internal/reference"
	"github.com/specialistvlad/ipcrecipe/internal/resolver"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	"gopkg.in/yaml.v3"
)

// Format selects an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatHCL}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("report: unknown format %q (use text, json, yaml or hcl)", s)
}

// Document is the input of Render.
type Document struct {
	Recipe   string
	Options  options.Values
	Resolved resolver.ResolvedConfiguration

	// Declared lists what the requirement hooks declared to the dependency
	// graph, as context:name/version, in declaration order.
	Declared []string

	// Plan holds the build commands, one line each, when the build hook ran.
	Plan []string
}

// view is the serialized shape shared by the structured formats.
type view struct {
	Recipe                     string            `json:"recipe" yaml:"recipe" cty:"recipe"`
	DefaultsVersion            int               `json:"defaults_version" yaml:"defaults_version" cty:"defaults_version"`
	Options                    map[string]bool   `json:"options" yaml:"options" cty:"options"`
	Dependencies               []string          `json:"dependencies" yaml:"dependencies" cty:"dependencies"`
	ToolRequirements           []string          `json:"tool_requirements" yaml:"tool_requirements" cty:"tool_requirements"`
	ToolchainVariables         map[string]string `json:"toolchain_variables" yaml:"toolchain_variables" cty:"toolchain_variables"`
	ActivatedGeneratorContexts []string          `json:"activated_generator_contexts" yaml:"activated_generator_contexts" cty:"activated_generator_contexts"`
	BuildContexts              map[string]bool   `json:"build_contexts" yaml:"build_contexts" cty:"build_contexts"`
	Declared                   []string          `json:"declared,omitempty" yaml:"declared,omitempty" cty:"declared"`
	BuildPlan                  []string          `json:"build_plan,omitempty" yaml:"build_plan,omitempty" cty:"build_plan"`
}

// hclAttributeOrder fixes the attribute order of the HCL output.
var hclAttributeOrder = []string{
	"defaults_version",
	"options",
	"dependencies",
	"tool_requirements",
	"toolchain_variables",
	"activated_generator_contexts",
	"build_contexts",
}

func newView(d Document) view {
	v := view{
		Recipe:                     d.Recipe,
		DefaultsVersion:            d.Options.DefaultsVersion(),
		Options:                    d.Options.Map(),
		Dependencies:               refStrings(d.Resolved.Dependencies),
		ToolRequirements:           refStrings(d.Resolved.ToolRequirements),
		ToolchainVariables:         d.Resolved.Variables(),
		ActivatedGeneratorContexts: refStrings(d.Resolved.ActivatedGeneratorContexts),
		BuildContexts:              make(map[string]bool, len(d.Resolved.BuildContexts)),
		Declared:                   d.Declared,
		BuildPlan:                  d.Plan,
	}
	if v.Options == nil {
		v.Options = map[string]bool{}
	}
	for _, bc := range d.Resolved.BuildContexts {
		v.BuildContexts[bc.Ref.Name] = bc.Activated
	}
	return v
}

func refStrings(refs []reference.Reference) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.String()
	}
	return out
}

// Render writes d to w in format f.
func Render(w io.Writer, f Format, d Document) error {
	switch f {
	case FormatText:
		return renderText(w, d)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(newView(d)); err != nil {
			return fmt.Errorf("report: encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newView(d)); err != nil {
			return fmt.Errorf("report: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("report: encode yaml: %w", err)
		}
		return nil
	case FormatHCL:
		return renderHCL(w, d)
	default:
		return fmt.Errorf("report: unknown format %q", f)
	}
}

func renderText(w io.Writer, d Document) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Recipe: %s\n", d.Recipe)
	var opts []string
	for _, name := range d.Options.Names() {
		v, _ := d.Options.Bool(name)
		opts = append(opts, fmt.Sprintf("%s=%t", name, v))
	}
	fmt.Fprintf(&b, "Options: %s (defaults v%d)\n", strings.Join(opts, " "), d.Options.DefaultsVersion())

	section := func(title string, lines []string) {
		fmt.Fprintf(&b, "\n%s:\n", title)
		if len(lines) == 0 {
			b.WriteString("  (none)\n")
			return
		}
		for _, l := range lines {
			fmt.Fprintf(&b, "  %s\n", l)
		}
	}

	section("Dependencies", refStrings(d.Resolved.Dependencies))
	tools := make([]string, 0, len(d.Resolved.BuildContexts))
	for _, bc := range d.Resolved.BuildContexts {
		line := bc.Ref.String()
		if bc.Activated {
			line += " (build context)"
		}
		tools = append(tools, line)
	}
	section("Tool requirements", tools)
	vars := make([]string, 0, len(d.Resolved.ToolchainVariables))
	for _, tv := range d.Resolved.ToolchainVariables {
		vars = append(vars, tv.Key+"="+tv.Value)
	}
	section("Toolchain variables", vars)
	if len(d.Declared) > 0 {
		section("Declared to the graph", d.Declared)
	}
	if len(d.Plan) > 0 {
		section("Build plan", d.Plan)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderHCL(w io.Writer, d Document) error {
	v := newView(d)
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return fmt.Errorf("report: hcl type: %w", err)
	}
	val, err := gocty.ToCtyValue(v, ty)
	if err != nil {
		return fmt.Errorf("report: hcl value: %w", err)
	}

	f := hclwrite.NewEmptyFile()
	block := f.Body().AppendNewBlock("resolution", []string{v.Recipe})
	for _, name := range hclAttributeOrder {
		block.Body().SetAttributeValue(name, normalize(val.GetAttr(name)))
	}
	for _, name := range []string{"declared", "build_plan"} {
		if attr := val.GetAttr(name); !attr.IsNull() && attr.LengthInt() > 0 {
			block.Body().SetAttributeValue(name, normalize(attr))
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("report: write hcl: %w", err)
	}
	return nil
}

// normalize turns maps into objects so hclwrite renders them as
// `{ key = value }` with bare keys, and lists into tuples.
func normalize(v cty.Value) cty.Value {
	ty := v.Type()
	switch {
	case ty.IsMapType():
		if v.LengthInt() == 0 {
			return cty.EmptyObjectVal
		}
		return cty.ObjectVal(v.AsValueMap())
	case ty.IsListType():
		if v.LengthInt() == 0 {
			return cty.EmptyTupleVal
		}
		return cty.TupleVal(v.AsValueSlice())
	default:
		return v
	}
}
