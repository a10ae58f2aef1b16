package loader

import (
	"sort"

	"github.com/toyz/routemap/internal/errors"
	"github.com/toyz/routemap/pkg/routemap"
)

// Exports is what loading a file yields: the module descriptors the file
// declares, addressable by name, plus the metadata store populated while
// loading. Imported modules from other packages are reachable through the
// descriptors' import metadata but are not exported by name.
type Exports struct {
	source  string
	modules map[string]*routemap.ModuleDescriptor
	order   []string
	store   *routemap.Store
}

// NewExports creates an empty export set for the given source path.
func NewExports(source string) *Exports {
	return &Exports{
		source:  source,
		modules: make(map[string]*routemap.ModuleDescriptor),
		store:   routemap.NewStore(),
	}
}

// Source returns the path the exports were loaded from.
func (e *Exports) Source() string {
	return e.source
}

// Store returns the metadata store populated during loading. It satisfies
// routemap.Reader and is handed to the walker.
func (e *Exports) Store() *routemap.Store {
	return e.store
}

// Add registers a module descriptor under its name. A repeated name keeps
// the latest descriptor.
func (e *Exports) Add(module *routemap.ModuleDescriptor) {
	if module == nil || module.Name == "" {
		return
	}
	if _, exists := e.modules[module.Name]; !exists {
		e.order = append(e.order, module.Name)
	}
	e.modules[module.Name] = module
}

// Module returns the exported module with the given name, or a module-not-
// found error listing what the source actually exports.
func (e *Exports) Module(name string) (*routemap.ModuleDescriptor, error) {
	if module, ok := e.modules[name]; ok {
		return module, nil
	}
	return nil, errors.ModuleNotFound(name, e.source, e.Names())
}

// Names returns the exported module names, sorted.
func (e *Exports) Names() []string {
	names := make([]string, 0, len(e.modules))
	for name := range e.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports how many modules the source exports.
func (e *Exports) Len() int {
	return len(e.modules)
}
