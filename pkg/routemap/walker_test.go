package routemap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// addModule creates a module descriptor and attaches its controller list.
func addModule(store *Store, name string, controllers ...*ControllerDescriptor) *ModuleDescriptor {
	mod := NewModule(name)
	if len(controllers) > 0 {
		store.Set(mod, KeyControllers, controllers)
	}
	return mod
}

// linkImports attaches the module's import list in declaration order.
func linkImports(store *Store, mod *ModuleDescriptor, refs ...ImportRef) {
	store.Set(mod, KeyImports, refs)
}

// routedController builds a controller with n numbered GET routes.
func routedController(store *Store, name, base string, n int) *ControllerDescriptor {
	ctrl := NewController(name)
	if base != "" {
		store.Set(ctrl, KeyPath, base)
	}
	for i := 0; i < n; i++ {
		addRoute(store, ctrl, fmt.Sprintf("route%d", i), "GET", fmt.Sprintf("r%d", i))
	}
	return ctrl
}

func TestDiscoverSingleModule(t *testing.T) {
	store := NewStore()
	ctrl := routedController(store, "HealthController", "health", 1)
	entry := addModule(store, "AppModule", ctrl)

	routes := NewWalker(store).Discover(entry, "")

	require.Len(t, routes, 1)
	require.Len(t, routes["HealthController"], 1)
	assert.Equal(t, RouteRecord{Method: "GET", Path: "/health/r0", Handler: "HealthController.route0"}, routes["HealthController"][0])
}

func TestDiscoverCollectsAllControllers(t *testing.T) {
	store := NewStore()
	users := routedController(store, "UserController", "users", 5)
	sessions := routedController(store, "SessionController", "sessions", 3)
	entry := addModule(store, "AppModule", users, sessions)

	routes := NewWalker(store).Discover(entry, "")

	require.Len(t, routes, 2)
	assert.Len(t, routes["UserController"], 5)
	assert.Len(t, routes["SessionController"], 3)
	assert.Equal(t, 8, routes.TotalRoutes())
}

func TestDiscoverFollowsTransitiveImports(t *testing.T) {
	store := NewStore()
	appCtrl := routedController(store, "AppController", "", 1)
	userCtrl := routedController(store, "UserController", "users", 2)
	auditCtrl := routedController(store, "AuditController", "audit", 1)

	grandchild := addModule(store, "AuditModule", auditCtrl)
	child := addModule(store, "UserModule", userCtrl)
	linkImports(store, child, ImportOf(grandchild))
	entry := addModule(store, "AppModule", appCtrl)
	linkImports(store, entry, ImportOf(child))

	routes, stats := NewWalker(store).DiscoverRoutes(entry, "")

	assert.Len(t, routes, 3)
	assert.Equal(t, 3, stats.ModulesVisited)
	assert.Equal(t, 3, stats.ControllersFound)
	assert.Equal(t, 4, stats.Routes)
}

func TestDiscoverTerminatesOnCycle(t *testing.T) {
	store := NewStore()
	aCtrl := routedController(store, "AController", "a", 1)
	bCtrl := routedController(store, "BController", "b", 1)

	modA := addModule(store, "ModuleA", aCtrl)
	modB := addModule(store, "ModuleB", bCtrl)
	linkImports(store, modA, ImportOf(modB))
	linkImports(store, modB, ImportOf(modA))

	routes, stats := NewWalker(store).DiscoverRoutes(modA, "")

	require.Len(t, routes, 2)
	assert.Len(t, routes["AController"], 1)
	assert.Len(t, routes["BController"], 1)
	assert.Equal(t, 2, stats.ModulesVisited)
}

func TestDiscoverVisitsDiamondOnce(t *testing.T) {
	store := NewStore()
	sharedCtrl := routedController(store, "SharedController", "shared", 1)

	bottom := addModule(store, "SharedModule", sharedCtrl)
	left := addModule(store, "LeftModule")
	linkImports(store, left, ImportOf(bottom))
	right := addModule(store, "RightModule")
	linkImports(store, right, ImportOf(bottom))
	top := addModule(store, "AppModule")
	linkImports(store, top, ImportOf(left), ImportOf(right))

	routes, stats := NewWalker(store).DiscoverRoutes(top, "")

	require.Len(t, routes, 1)
	assert.Len(t, routes["SharedController"], 1)
	assert.Equal(t, 4, stats.ModulesVisited)
}

func TestDiscoverTerminatesOnSelfImport(t *testing.T) {
	store := NewStore()
	ctrl := routedController(store, "LoopController", "loop", 1)
	entry := addModule(store, "LoopModule", ctrl)
	linkImports(store, entry, ImportOf(entry))

	routes, stats := NewWalker(store).DiscoverRoutes(entry, "")

	assert.Len(t, routes, 1)
	assert.Equal(t, 1, stats.ModulesVisited)
}

func TestDiscoverSkipsWholeModuleOnFailedRead(t *testing.T) {
	store := NewStore()
	brokenCtrl := routedController(store, "BrokenController", "broken", 2)
	siblingCtrl := routedController(store, "SiblingController", "sibling", 1)
	hiddenCtrl := routedController(store, "HiddenController", "hidden", 1)

	// The broken module has perfectly readable controllers; only its
	// imports metadata fails. Its whole contribution must vanish, including
	// the module it links to.
	hidden := addModule(store, "HiddenModule", hiddenCtrl)
	broken := addModule(store, "BrokenModule", brokenCtrl)
	linkImports(store, broken, ImportOf(hidden))
	sibling := addModule(store, "SiblingModule", siblingCtrl)
	entry := addModule(store, "AppModule")
	linkImports(store, entry, ImportOf(broken), ImportOf(sibling))

	reader := faultyReader{inner: store, failTarget: broken, failKey: KeyImports}
	routes, stats := NewWalker(reader).DiscoverRoutes(entry, "")

	require.Len(t, routes, 1)
	assert.Contains(t, routes, "SiblingController")
	assert.NotContains(t, routes, "BrokenController")
	assert.NotContains(t, routes, "HiddenController")
	assert.Equal(t, 1, stats.ModulesSkipped)
	assert.Equal(t, 2, stats.ModulesVisited)
}

func TestDiscoverLaterControllerOverwritesEarlier(t *testing.T) {
	store := NewStore()

	early := NewController("ReportController")
	addRoute(store, early, "old", "GET", "old")
	late := NewController("ReportController")
	addRoute(store, late, "new", "GET", "new")

	child := addModule(store, "ChildModule", late)
	entry := addModule(store, "AppModule", early)
	linkImports(store, entry, ImportOf(child))

	routes := NewWalker(store).Discover(entry, "")

	require.Len(t, routes, 1)
	require.Len(t, routes["ReportController"], 1)
	assert.Equal(t, "ReportController.new", routes["ReportController"][0].Handler)
}

func TestDiscoverResolvesDynamicImports(t *testing.T) {
	store := NewStore()
	configCtrl := routedController(store, "ConfigController", "config", 1)
	configured := addModule(store, "ConfigModule", configCtrl)

	entry := addModule(store, "AppModule")
	linkImports(store, entry,
		DynamicImportOf(configured, map[string]any{"isGlobal": true}),
		ImportRef{},
		ImportRef{Dynamic: &DynamicModule{Config: map[string]any{"orphan": true}}},
	)

	routes, stats := NewWalker(store).DiscoverRoutes(entry, "")

	require.Len(t, routes, 1)
	assert.Contains(t, routes, "ConfigController")
	assert.Equal(t, 2, stats.ModulesVisited)
}

func TestDiscoverAppliesGlobalPrefix(t *testing.T) {
	store := NewStore()
	ctrl := routedController(store, "UserController", "users", 1)
	entry := addModule(store, "AppModule", ctrl)

	routes := NewWalker(store).Discover(entry, "api")

	require.Len(t, routes["UserController"], 1)
	assert.Equal(t, "/api/users/r0", routes["UserController"][0].Path)
}

func TestDiscoverOmitsRoutelessControllers(t *testing.T) {
	store := NewStore()
	silent := NewController("SilentController")
	silent.Members = append(silent.Members, NewEndpoint("helper"))
	noisy := routedController(store, "NoisyController", "noisy", 1)
	entry := addModule(store, "AppModule", silent, noisy)

	routes := NewWalker(store).Discover(entry, "")

	assert.Len(t, routes, 1)
	assert.NotContains(t, routes, "SilentController")
}

func TestDiscoverNilEntry(t *testing.T) {
	store := NewStore()

	routes, stats := NewWalker(store).DiscoverRoutes(nil, "")

	assert.NotNil(t, routes)
	assert.Empty(t, routes)
	assert.Equal(t, Stats{}, stats)
}

func TestDiscoverModuleWithoutMetadata(t *testing.T) {
	// A bare module with neither controllers nor imports is an ordinary
	// leaf, not an error.
	store := NewStore()
	entry := NewModule("EmptyModule")

	routes, stats := NewWalker(store).DiscoverRoutes(entry, "")

	assert.Empty(t, routes)
	assert.Equal(t, 1, stats.ModulesVisited)
	assert.Zero(t, stats.ModulesSkipped)
}

func TestDiscoverCountsSkippedMembers(t *testing.T) {
	store := NewStore()
	ctrl := NewController("FlakyController")
	addRoute(store, ctrl, "good", "GET", "good")
	bad := addRoute(store, ctrl, "bad", "GET", "bad")
	entry := addModule(store, "AppModule", ctrl)

	reader := faultyReader{inner: store, failTarget: bad, failKey: KeyPath}
	routes, stats := NewWalker(reader).DiscoverRoutes(entry, "")

	require.Len(t, routes["FlakyController"], 1)
	assert.Equal(t, 1, stats.MembersSkipped)
}
