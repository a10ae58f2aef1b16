package annotations

import (
	"fmt"
	"strings"
)

// ModuleSchema describes //routemap::module annotations.
var ModuleSchema = Schema{
	Kind:        ModuleAnnotation,
	Description: "Declares a struct as an application module",
	Parameters: map[string]ParameterSpec{
		"Imports": {
			Type:        StringSliceType,
			Description: "Comma-separated module names this module imports; names may be qualified as <import-path>.<ModuleName>",
		},
		"Controllers": {
			Type:        StringSliceType,
			Description: "Comma-separated controller struct names owned by this module",
		},
	},
	Examples: []string{
		"//routemap::module",
		"//routemap::module -Controllers=UserController",
		"//routemap::module -Imports=UserModule,OrderModule -Controllers=AppController",
		"//routemap::module -Imports=github.com/acme/shop/internal/users.UserModule",
	},
}

// ControllerSchema describes //routemap::controller annotations.
var ControllerSchema = Schema{
	Kind:        ControllerAnnotation,
	Description: "Declares a struct as a controller",
	Parameters: map[string]ParameterSpec{
		"Prefix": {
			Type:        StringType,
			Description: "Base path applied to every route in this controller",
		},
	},
	Examples: []string{
		"//routemap::controller",
		"//routemap::controller -Prefix=/users",
		"//routemap::controller -Prefix=/api/v1/orders",
	},
}

// RouteSchema describes //routemap::route annotations. Method and path are
// positional: the method is required, the path defaults to the controller
// root when omitted.
var RouteSchema = Schema{
	Kind:        RouteAnnotation,
	Description: "Declares a controller method as an HTTP route",
	Parameters: map[string]ParameterSpec{
		"method": {
			Type:        StringType,
			Required:    true,
			Description: "HTTP verb (first positional value)",
			Validator: func(v any) error {
				method, ok := v.(string)
				if !ok || strings.TrimSpace(method) == "" {
					return fmt.Errorf("method must be a non-empty verb such as GET or POST")
				}
				return nil
			},
		},
		"path": {
			Type:        StringType,
			Description: "Route path relative to the controller prefix (second positional value)",
		},
	},
	Examples: []string{
		"//routemap::route GET /",
		"//routemap::route GET /{id}",
		"//routemap::route POST /users",
		"//routemap::route DELETE {id}",
	},
}

// RegisterBuiltinSchemas installs the three annotation schemas.
func RegisterBuiltinSchemas(registry Registry) error {
	for _, schema := range []Schema{ModuleSchema, ControllerSchema, RouteSchema} {
		if err := registry.Register(schema.Kind, schema); err != nil {
			return fmt.Errorf("registering %s schema: %w", schema.Kind, err)
		}
	}
	return nil
}
