package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/toyz/routemap/internal/errors"
	"github.com/toyz/routemap/internal/utils"
	"github.com/toyz/routemap/pkg/routemap"
)

// Manifest loads modules from a TOML description of the application. The
// manifest is the escape hatch for codebases that cannot carry annotations:
// the same module/controller/route shape, declared as data.
//
//	[[module]]
//	name = "AppModule"
//	controllers = ["HealthController"]
//	imports = ["UserModule", { module = "ConfigModule", config = { isGlobal = true } }]
//
//	[[controller]]
//	name = "HealthController"
//	path = "/"
//
//	[[controller.route]]
//	name = "Check"
//	method = "GET"
//	path = "health"
type Manifest struct {
	files    *utils.FileReader
	diag     *utils.DiagnosticSystem
	validate *validator.Validate
}

type manifestDoc struct {
	Modules     []manifestModule     `toml:"module" validate:"dive"`
	Controllers []manifestController `toml:"controller" validate:"dive"`
}

type manifestModule struct {
	Name        string   `toml:"name" validate:"required"`
	Controllers []string `toml:"controllers"`
	Imports     []any    `toml:"imports"`
}

type manifestController struct {
	Name   string          `toml:"name" validate:"required"`
	Path   string          `toml:"path"`
	Routes []manifestRoute `toml:"route" validate:"dive"`
}

type manifestRoute struct {
	Name string `toml:"name" validate:"required"`
	// Method is a verb name ("GET") or an integer verb code (1 for POST).
	// Presence is checked in checkManifest rather than by tag: a required
	// tag on an any field would reject the zero verb code.
	Method any    `toml:"method"`
	Path   string `toml:"path"`
}

// NewManifest creates the TOML manifest strategy.
func NewManifest(diag *utils.DiagnosticSystem) (*Manifest, error) {
	files, err := utils.NewFileReader()
	if err != nil {
		return nil, err
	}
	if diag == nil {
		diag = utils.NewDiagnosticSystem(utils.DiagnosticSilent, nil)
	}
	return &Manifest{
		files:    files,
		diag:     diag,
		validate: validator.New(),
	}, nil
}

// Name identifies the strategy.
func (m *Manifest) Name() string {
	return "toml-manifest"
}

// Supports claims .toml files.
func (m *Manifest) Supports(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load decodes, validates and links the manifest at path.
func (m *Manifest) Load(path string) (*Exports, error) {
	data, err := m.files.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc manifestDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(errors.ManifestInvalidCode, err, "decoding %s", path)
	}
	if err := m.validate.Struct(&doc); err != nil {
		return nil, errors.Wrapf(errors.ManifestInvalidCode, err, "validating %s", path).
			WithHint("every [[module]], [[controller]] and [[controller.route]] needs a name, and every route a method")
	}
	if err := checkManifest(&doc); err != nil {
		return nil, errors.Wrapf(errors.ManifestInvalidCode, err, "validating %s", path)
	}

	exports := NewExports(path)
	store := exports.Store()

	controllers := make(map[string]*routemap.ControllerDescriptor, len(doc.Controllers))
	for _, mc := range doc.Controllers {
		members := make([]*routemap.EndpointDescriptor, 0, len(mc.Routes))
		for _, route := range mc.Routes {
			endpoint := routemap.NewEndpoint(route.Name)
			store.Set(endpoint, routemap.KeyMethod, route.Method)
			store.Set(endpoint, routemap.KeyPath, route.Path)
			members = append(members, endpoint)
		}
		desc := routemap.NewController(mc.Name, members...)
		if mc.Path != "" {
			store.Set(desc, routemap.KeyPath, mc.Path)
		}
		controllers[mc.Name] = desc
	}

	// Descriptors first, wiring second, so imports can reference modules
	// declared later in the file.
	modules := make(map[string]*routemap.ModuleDescriptor, len(doc.Modules))
	for _, mm := range doc.Modules {
		modules[mm.Name] = routemap.NewModule(mm.Name)
	}
	for _, mm := range doc.Modules {
		desc := modules[mm.Name]

		var ctrls []*routemap.ControllerDescriptor
		for _, name := range mm.Controllers {
			ctrl, ok := controllers[name]
			if !ok {
				m.diag.Warn("module %s references unknown controller %s", mm.Name, name)
				continue
			}
			ctrls = append(ctrls, ctrl)
		}
		if len(ctrls) > 0 {
			store.Set(desc, routemap.KeyControllers, ctrls)
		}

		var refs []routemap.ImportRef
		for _, raw := range mm.Imports {
			refs = append(refs, m.importRef(modules, mm.Name, raw))
		}
		if len(refs) > 0 {
			store.Set(desc, routemap.KeyImports, refs)
		}
	}

	for _, mm := range doc.Modules {
		exports.Add(modules[mm.Name])
	}
	return exports, nil
}

// importRef resolves one imports entry: a string names another module in
// the manifest, a table is a dynamic import with optional config.
func (m *Manifest) importRef(modules map[string]*routemap.ModuleDescriptor, from string, raw any) routemap.ImportRef {
	switch v := raw.(type) {
	case string:
		target, ok := modules[v]
		if !ok {
			m.diag.Warn("module %s imports unknown module %s", from, v)
			return routemap.ImportRef{}
		}
		return routemap.ImportOf(target)
	case map[string]any:
		name, _ := v["module"].(string)
		if name == "" {
			m.diag.Warn("module %s: dynamic import needs a module field", from)
			return routemap.ImportRef{}
		}
		target, ok := modules[name]
		if !ok {
			m.diag.Warn("module %s imports unknown module %s", from, name)
			return routemap.ImportRef{}
		}
		config, _ := v["config"].(map[string]any)
		return routemap.DynamicImportOf(target, config)
	default:
		m.diag.Warn("module %s: import entries must be strings or tables, got %T", from, raw)
		return routemap.ImportRef{}
	}
}

// checkManifest covers what struct tags cannot: name uniqueness and method
// shapes.
func checkManifest(doc *manifestDoc) error {
	moduleNames := make(map[string]bool, len(doc.Modules))
	for _, m := range doc.Modules {
		if moduleNames[m.Name] {
			return fmt.Errorf("duplicate module %q", m.Name)
		}
		moduleNames[m.Name] = true
	}

	controllerNames := make(map[string]bool, len(doc.Controllers))
	for _, c := range doc.Controllers {
		if controllerNames[c.Name] {
			return fmt.Errorf("duplicate controller %q", c.Name)
		}
		controllerNames[c.Name] = true

		for _, r := range c.Routes {
			switch method := r.Method.(type) {
			case nil:
				return fmt.Errorf("controller %q route %q is missing a method", c.Name, r.Name)
			case string:
				if strings.TrimSpace(method) == "" {
					return fmt.Errorf("controller %q route %q has an empty method", c.Name, r.Name)
				}
			case int64:
			default:
				return fmt.Errorf("controller %q route %q: method must be a string or integer verb code, got %T", c.Name, r.Name, r.Method)
			}
		}
	}
	return nil
}
