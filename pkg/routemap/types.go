package routemap

import "sort"

// RouteRecord is one discovered route: the normalized verb, the full
// normalized path, and the handler in "Controller.member" form.
type RouteRecord struct {
	Method  string `json:"method"`
	Path    string `json:"path"`
	Handler string `json:"handler"`
}

// RouteMap groups discovered routes by controller name. When two reachable
// controllers share a name, the one discovered later overwrites the earlier
// entry; keep controller names unique if both should appear.
type RouteMap map[string][]RouteRecord

// TotalRoutes returns the number of records across all controllers.
func (m RouteMap) TotalRoutes() int {
	total := 0
	for _, records := range m {
		total += len(records)
	}
	return total
}

// ControllerNames returns the controller names in lexical order.
func (m RouteMap) ControllerNames() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stats counts what one discovery run saw. ModulesVisited and ModulesSkipped
// are disjoint: a module whose metadata could not be read counts only as
// skipped. MembersSkipped counts members dropped because a metadata read
// failed, not ordinary non-route methods.
type Stats struct {
	ModulesVisited   int
	ModulesSkipped   int
	ControllersFound int
	Routes           int
	MembersSkipped   int
}
