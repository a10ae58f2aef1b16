// Package annotations parses routemap:: comment annotations. Three kinds
// exist: module declarations, controller declarations and route members.
// Each kind has a schema describing its parameters; the parser rejects
// unknown kinds, unknown parameters and missing required parameters with
// located errors.
package annotations

import "fmt"

// Kind identifies which annotation was written.
type Kind int

const (
	ModuleAnnotation Kind = iota
	ControllerAnnotation
	RouteAnnotation
)

// String returns the annotation keyword as written in source.
func (k Kind) String() string {
	switch k {
	case ModuleAnnotation:
		return "module"
	case ControllerAnnotation:
		return "controller"
	case RouteAnnotation:
		return "route"
	default:
		return "unknown"
	}
}

// ParseKind converts an annotation keyword to its Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "module":
		return ModuleAnnotation, nil
	case "controller":
		return ControllerAnnotation, nil
	case "route":
		return RouteAnnotation, nil
	default:
		return 0, fmt.Errorf("unknown annotation kind %q (expected module, controller or route)", s)
	}
}

// SourceLocation is where an annotation sits in the scanned source.
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

// String formats the location the way compilers do.
func (s SourceLocation) String() string {
	if s.File == "" {
		return "unknown location"
	}
	if s.Line == 0 {
		return s.File
	}
	if s.Column == 0 {
		return fmt.Sprintf("%s:%d", s.File, s.Line)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// ParsedAnnotation is one successfully parsed annotation with its typed
// parameters.
type ParsedAnnotation struct {
	Kind       Kind
	Parameters map[string]any
	Location   SourceLocation
	Raw        string
}

// GetString returns a string parameter, or the optional default when the
// parameter is missing or not a string.
func (p *ParsedAnnotation) GetString(name string, defaultValue ...string) string {
	if value, exists := p.Parameters[name]; exists {
		if s, ok := value.(string); ok {
			return s
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// GetStringSlice returns a string-slice parameter, nil when missing.
func (p *ParsedAnnotation) GetStringSlice(name string) []string {
	if value, exists := p.Parameters[name]; exists {
		if list, ok := value.([]string); ok {
			return list
		}
	}
	return nil
}

// GetBool returns a boolean parameter, false when missing.
func (p *ParsedAnnotation) GetBool(name string) bool {
	if value, exists := p.Parameters[name]; exists {
		if b, ok := value.(bool); ok {
			return b
		}
	}
	return false
}

// HasParameter reports whether the annotation carries the parameter.
func (p *ParsedAnnotation) HasParameter(name string) bool {
	_, exists := p.Parameters[name]
	return exists
}

// ParameterType is the declared type of a schema parameter.
type ParameterType int

const (
	StringType ParameterType = iota
	BoolType
	StringSliceType
)

// String returns the Go-ish name of the parameter type.
func (p ParameterType) String() string {
	switch p {
	case StringType:
		return "string"
	case BoolType:
		return "bool"
	case StringSliceType:
		return "[]string"
	default:
		return "unknown"
	}
}

// ParameterSpec describes one parameter an annotation kind accepts.
type ParameterSpec struct {
	Type        ParameterType
	Required    bool
	Description string
	Validator   func(any) error
}

// Schema describes one annotation kind: its parameters and usage examples
// surfaced in error hints.
type Schema struct {
	Kind        Kind
	Description string
	Parameters  map[string]ParameterSpec
	Examples    []string
}
