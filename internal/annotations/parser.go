package annotations

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Prefix is the marker that opens every annotation comment.
const Prefix = "routemap::"

// SyntaxError is a located annotation parse or validation failure.
type SyntaxError struct {
	Msg  string
	Loc  SourceLocation
	Hint string
}

func (e *SyntaxError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("%s: %s", e.Loc, e.Msg)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Loc, e.Msg, e.Hint)
}

// annotationAST is the participle grammar for one annotation comment. The
// kind keyword and every following whitespace-separated word are captured;
// named parameters stay fused as single "-Name=Value" words because values
// never contain whitespace.
type annotationAST struct {
	Kind  string   `parser:"Comment Marker Separator @Word"`
	Words []string `parser:"@Word*"`
}

// Parser parses and validates routemap:: annotation comments.
type Parser struct {
	parser   *participle.Parser[annotationAST]
	registry Registry
}

// NewParser creates a parser validating against the given schema registry.
// A nil registry disables schema validation.
func NewParser(registry Registry) *Parser {
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `//`},
		{Name: "Marker", Pattern: `routemap`},
		{Name: "Separator", Pattern: `::`},
		{Name: "Word", Pattern: `[^\s]+`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	parser := participle.MustBuild[annotationAST](
		participle.Lexer(lex),
		participle.Elide("Whitespace"),
	)

	return &Parser{parser: parser, registry: registry}
}

// NewDefaultParser creates a parser with the builtin schemas registered.
func NewDefaultParser() *Parser {
	registry := NewRegistry()
	if err := RegisterBuiltinSchemas(registry); err != nil {
		// The builtin schemas are static; a failure here is a programming
		// error, same as a bad grammar in MustBuild.
		panic(err)
	}
	return NewParser(registry)
}

// IsAnnotation reports whether the comment line opens with the routemap
// marker. Plain comments are not annotations and should never reach
// ParseAnnotation.
func IsAnnotation(comment string) bool {
	trimmed := strings.TrimSpace(comment)
	if !strings.HasPrefix(trimmed, "//") {
		return false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "//"))
	return strings.HasPrefix(rest, Prefix)
}

// ParseAnnotation parses one annotation comment. The returned annotation has
// its positional values folded into Parameters ("method" and "path" for
// routes) and every named parameter converted to its schema type.
func (p *Parser) ParseAnnotation(comment string, location SourceLocation) (*ParsedAnnotation, error) {
	trimmed := strings.TrimSpace(comment)
	if !IsAnnotation(trimmed) {
		return nil, &SyntaxError{
			Msg:  "not a routemap annotation",
			Loc:  location,
			Hint: "annotations start with //routemap::",
		}
	}

	ast, err := p.parser.ParseString(location.File, trimmed)
	if err != nil {
		return nil, &SyntaxError{
			Msg:  fmt.Sprintf("malformed annotation: %v", err),
			Loc:  location,
			Hint: "expected //routemap::<kind> like //routemap::route GET /users",
		}
	}

	kind, err := ParseKind(ast.Kind)
	if err != nil {
		return nil, &SyntaxError{Msg: err.Error(), Loc: location}
	}

	parsed := &ParsedAnnotation{
		Kind:       kind,
		Parameters: make(map[string]any),
		Location:   location,
		Raw:        trimmed,
	}

	var positional []string
	named := false
	for _, word := range ast.Words {
		if strings.HasPrefix(word, "-") {
			named = true
			name, value, hasValue := strings.Cut(strings.TrimPrefix(word, "-"), "=")
			if name == "" {
				return nil, &SyntaxError{
					Msg:  fmt.Sprintf("parameter %q has no name", word),
					Loc:  location,
					Hint: "named parameters look like -Prefix=/users",
				}
			}
			if hasValue {
				parsed.Parameters[name] = p.convertValue(kind, name, value)
			} else {
				parsed.Parameters[name] = true
			}
			continue
		}
		if named {
			return nil, &SyntaxError{
				Msg:  fmt.Sprintf("unexpected value %q after named parameters", word),
				Loc:  location,
				Hint: "positional values must come before -Name=Value parameters",
			}
		}
		positional = append(positional, word)
	}

	if err := p.applyPositional(parsed, positional, location); err != nil {
		return nil, err
	}
	if err := p.validate(parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

// applyPositional folds positional values into named parameters. Only route
// annotations take positionals: the verb and an optional path.
func (p *Parser) applyPositional(parsed *ParsedAnnotation, positional []string, location SourceLocation) error {
	if parsed.Kind != RouteAnnotation {
		if len(positional) > 0 {
			return &SyntaxError{
				Msg:  fmt.Sprintf("%s annotation takes no positional values, got %q", parsed.Kind, positional[0]),
				Loc:  location,
				Hint: exampleHint(p.registry, parsed.Kind),
			}
		}
		return nil
	}

	if len(positional) > 2 {
		return &SyntaxError{
			Msg:  fmt.Sprintf("route annotation takes a verb and an optional path, got %d values", len(positional)),
			Loc:  location,
			Hint: exampleHint(p.registry, RouteAnnotation),
		}
	}
	if len(positional) >= 1 {
		parsed.Parameters["method"] = positional[0]
	}
	if len(positional) == 2 {
		parsed.Parameters["path"] = positional[1]
	}
	return nil
}

// convertValue coerces a raw parameter value to its schema type. Values for
// unknown parameters stay raw strings so validation can name them.
func (p *Parser) convertValue(kind Kind, name, raw string) any {
	if p.registry == nil {
		return unquote(raw)
	}
	schema, err := p.registry.Schema(kind)
	if err != nil {
		return unquote(raw)
	}
	spec, exists := schema.Parameters[name]
	if !exists {
		return unquote(raw)
	}

	switch spec.Type {
	case BoolType:
		if b, err := strconv.ParseBool(raw); err == nil {
			return b
		}
		return raw
	case StringSliceType:
		parts := strings.Split(raw, ",")
		values := make([]string, 0, len(parts))
		for _, part := range parts {
			part = strings.TrimSpace(unquote(part))
			if part == "" {
				continue
			}
			values = append(values, part)
		}
		return values
	default:
		return unquote(raw)
	}
}

// validate checks the annotation against its schema: no unknown parameters,
// all required parameters present, all validators happy.
func (p *Parser) validate(parsed *ParsedAnnotation) error {
	if p.registry == nil {
		return nil
	}
	schema, err := p.registry.Schema(parsed.Kind)
	if err != nil {
		return &SyntaxError{Msg: err.Error(), Loc: parsed.Location}
	}

	for name, value := range parsed.Parameters {
		spec, exists := schema.Parameters[name]
		if !exists {
			return &SyntaxError{
				Msg:  fmt.Sprintf("unknown parameter %q for %s annotation", name, parsed.Kind),
				Loc:  parsed.Location,
				Hint: exampleHint(p.registry, parsed.Kind),
			}
		}
		if spec.Validator != nil {
			if err := spec.Validator(value); err != nil {
				return &SyntaxError{
					Msg: fmt.Sprintf("parameter %q: %v", name, err),
					Loc: parsed.Location,
				}
			}
		}
	}

	for name, spec := range schema.Parameters {
		if !spec.Required {
			continue
		}
		if !parsed.HasParameter(name) {
			return &SyntaxError{
				Msg:  fmt.Sprintf("%s annotation requires %s", parsed.Kind, name),
				Loc:  parsed.Location,
				Hint: exampleHint(p.registry, parsed.Kind),
			}
		}
	}
	return nil
}

// exampleHint builds a "for example" hint from the schema's examples.
func exampleHint(registry Registry, kind Kind) string {
	if registry == nil {
		return ""
	}
	schema, err := registry.Schema(kind)
	if err != nil || len(schema.Examples) == 0 {
		return ""
	}
	example := schema.Examples[0]
	if len(schema.Examples) > 1 {
		example = schema.Examples[1]
	}
	return "for example: " + example
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
