// Package routemap discovers HTTP routes declared across a graph of
// application modules without executing any application code. Modules,
// controllers and endpoints are opaque descriptor handles; everything the
// walk needs to know about them is read through the metadata Reader
// capability, which keeps discovery independent of how the descriptors
// were produced (annotated Go source, TOML manifests, or test fixtures).
package routemap

// ModuleDescriptor is a handle for one application module. Identity is the
// pointer: two descriptors with the same name are still two distinct modules
// to the walker. Controllers and imports are attached as metadata, never
// stored on the descriptor itself.
type ModuleDescriptor struct {
	Name string
}

// NewModule creates a module descriptor.
func NewModule(name string) *ModuleDescriptor {
	return &ModuleDescriptor{Name: name}
}

// ControllerDescriptor is a handle for one controller and its members in
// declaration order. The controller's base path is attached as metadata
// under KeyPath.
type ControllerDescriptor struct {
	Name    string
	Members []*EndpointDescriptor
}

// NewController creates a controller descriptor with its members in
// declaration order.
func NewController(name string, members ...*EndpointDescriptor) *ControllerDescriptor {
	return &ControllerDescriptor{Name: name, Members: members}
}

// EndpointDescriptor is a handle for one member of a controller. Members
// carrying both KeyPath and KeyMethod metadata are routes; members without
// them are ordinary methods and never appear in the output.
type EndpointDescriptor struct {
	Name string
}

// NewEndpoint creates an endpoint descriptor.
func NewEndpoint(name string) *EndpointDescriptor {
	return &EndpointDescriptor{Name: name}
}

// DynamicModule is a configured module reference: a module plus the options
// payload it was configured with. Discovery only follows the inner module;
// the config is carried for callers that want to inspect it.
type DynamicModule struct {
	Module *ModuleDescriptor
	Config map[string]any
}

// ImportRef is one entry of a module's import list. Exactly one of Module
// and Dynamic is set; Resolve collapses both shapes to the imported module.
type ImportRef struct {
	Module  *ModuleDescriptor
	Dynamic *DynamicModule
}

// ImportOf wraps a plain module reference.
func ImportOf(m *ModuleDescriptor) ImportRef {
	return ImportRef{Module: m}
}

// DynamicImportOf wraps a configured module reference.
func DynamicImportOf(m *ModuleDescriptor, config map[string]any) ImportRef {
	return ImportRef{Dynamic: &DynamicModule{Module: m, Config: config}}
}

// IsDynamic reports whether the reference carries a configuration payload.
func (r ImportRef) IsDynamic() bool {
	return r.Dynamic != nil
}

// Resolve returns the imported module, unwrapping dynamic references.
// It returns nil for an empty or unresolved reference; the walker skips
// those without recursing.
func (r ImportRef) Resolve() *ModuleDescriptor {
	if r.Dynamic != nil {
		return r.Dynamic.Module
	}
	return r.Module
}
