package lifecycle

import "fmt"

// State is a lifecycle position.
type State int

const (
	Uninitialized State = iota
	LayoutComputed
	RequirementsResolved
	ToolRequirementsResolved
	Generated
	Built
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case LayoutComputed:
		return "LayoutComputed"
	case RequirementsResolved:
		return "RequirementsResolved"
	case ToolRequirementsResolved:
		return "ToolRequirementsResolved"
	case Generated:
		return "Generated"
	case Built:
		return "Built"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Hook names a host-invoked lifecycle entry point.
type Hook string

const (
	HookLayout            Hook = "layout"
	HookRequirements      Hook = "requirements"
	HookBuildRequirements Hook = "build_requirements"
	HookGenerate          Hook = "generate"
	HookBuild             Hook = "build"
)

// Hooks lists every hook in call order.
var Hooks = []Hook{HookLayout, HookRequirements, HookBuildRequirements, HookGenerate, HookBuild}

type transition struct {
	from, to State
}

var transitions = map[Hook]transition{
	HookLayout:            {from: Uninitialized, to: LayoutComputed},
	HookRequirements:      {from: LayoutComputed, to: RequirementsResolved},
	HookBuildRequirements: {from: RequirementsResolved, to: ToolRequirementsResolved},
	HookGenerate:          {from: ToolRequirementsResolved, to: Generated},
	HookBuild:             {from: Generated, to: Built},
}

// ParseHook returns the hook named s.
func ParseHook(s string) (Hook, error) {
	for _, h := range Hooks {
		if string(h) == s {
			return h, nil
		}
	}
	return "", fmt.Errorf("lifecycle: unknown hook %q", s)
}
