package routemap

import "github.com/charmbracelet/log"

// Walker traverses the module import graph from an entry module and collects
// every route reachable through it. A Walker may be reused for sequential
// runs; each run keeps its own visited set and result map.
type Walker struct {
	reader Reader
	log    *log.Logger
}

// WalkerOption configures a Walker.
type WalkerOption func(*Walker)

// WithTracer attaches a logger that receives a debug line per visited,
// skipped and discovered element of the walk.
func WithTracer(logger *log.Logger) WalkerOption {
	return func(w *Walker) {
		w.log = logger
	}
}

// NewWalker creates a walker reading module metadata through the given
// Reader.
func NewWalker(reader Reader, opts ...WalkerOption) *Walker {
	w := &Walker{reader: reader}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Discover walks the import graph from entry and returns the routes of every
// reachable controller, each full path prefixed with prefix. See
// DiscoverRoutes for the traversal rules.
func (w *Walker) Discover(entry *ModuleDescriptor, prefix string) RouteMap {
	routes, _ := w.DiscoverRoutes(entry, prefix)
	return routes
}

// DiscoverRoutes is Discover plus the run's Stats.
//
// The walk is an explicit-stack depth-first traversal in import declaration
// order. Each distinct descriptor pointer is processed at most once, so
// cycles, diamonds and self-imports terminate. A module whose controllers or
// imports metadata cannot be read contributes nothing at all, controllers
// and outbound imports alike, and the walk continues with its siblings.
// Controllers only appear in the result when they yield at least one route;
// a later controller with the same name overwrites an earlier one. A nil
// entry yields an empty map.
func (w *Walker) DiscoverRoutes(entry *ModuleDescriptor, prefix string) (RouteMap, Stats) {
	routes := make(RouteMap)
	var stats Stats
	if entry == nil {
		return routes, stats
	}

	extractor := &Extractor{reader: w.reader, log: w.log, stats: &stats}
	visited := make(map[*ModuleDescriptor]struct{})
	stack := []*ModuleDescriptor{entry}

	for len(stack) > 0 {
		module := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := visited[module]; seen {
			continue
		}
		visited[module] = struct{}{}

		controllers, imports, err := w.readModule(module)
		if err != nil {
			stats.ModulesSkipped++
			w.trace("module skipped", "module", module.Name, "error", err)
			continue
		}
		stats.ModulesVisited++
		w.trace("visiting module", "module", module.Name,
			"controllers", len(controllers), "imports", len(imports))

		for _, ctrl := range controllers {
			records := extractor.Extract(ctrl, prefix)
			if len(records) == 0 {
				continue
			}
			if _, exists := routes[ctrl.Name]; exists {
				w.trace("controller name collision, keeping latest", "controller", ctrl.Name)
			}
			routes[ctrl.Name] = records
		}

		// Imports are pushed in reverse so the stack pops them in
		// declaration order.
		for i := len(imports) - 1; i >= 0; i-- {
			next := imports[i].Resolve()
			if next == nil {
				continue
			}
			stack = append(stack, next)
		}
	}

	stats.ControllersFound = len(routes)
	stats.Routes = routes.TotalRoutes()
	return routes, stats
}

// readModule reads both module attributes up front so that a failure on
// either one discards the whole module, never half of it.
func (w *Walker) readModule(module *ModuleDescriptor) ([]*ControllerDescriptor, []ImportRef, error) {
	controllers, err := readControllers(w.reader, module)
	if err != nil {
		return nil, nil, err
	}
	imports, err := readImports(w.reader, module)
	if err != nil {
		return nil, nil, err
	}
	return controllers, imports, nil
}

func (w *Walker) trace(msg string, keyvals ...any) {
	if w.log == nil {
		return
	}
	w.log.Debug(msg, keyvals...)
}
