package loader

import (
	"fmt"
	"go/ast"
	"os"
	"path/filepath"
	"strings"

	"github.com/toyz/routemap/internal/annotations"
	"github.com/toyz/routemap/internal/utils"
	"github.com/toyz/routemap/pkg/routemap"
)

// Source loads modules from annotated Go source. It parses the package
// directory containing the entry path, collects routemap:: annotations from
// type and method doc comments, and resolves qualified imports against the
// enclosing go.mod, parsing each referenced package at most once.
type Source struct {
	files  *utils.FileReader
	gomod  *utils.GoModParser
	parser *annotations.Parser
	diag   *utils.DiagnosticSystem

	scans map[string]*packageScan
}

// packageScan is the raw annotation harvest of one package directory. It is
// pure syntax: names are unresolved until a link pass runs.
type packageScan struct {
	dir         string
	modules     map[string]*moduleDecl
	moduleOrder []string
	controllers map[string]*controllerDecl
	routes      map[string][]routeDecl
}

type moduleDecl struct {
	scan        *packageScan
	name        string
	controllers []string
	imports     []string
}

type controllerDecl struct {
	name   string
	prefix string
}

type routeDecl struct {
	name   string
	method string
	path   string
}

// NewSource creates the Go source strategy.
func NewSource(diag *utils.DiagnosticSystem) (*Source, error) {
	files, err := utils.NewFileReader()
	if err != nil {
		return nil, err
	}
	if diag == nil {
		diag = utils.NewDiagnosticSystem(utils.DiagnosticSilent, nil)
	}
	return &Source{
		files:  files,
		gomod:  utils.NewGoModParser(),
		parser: annotations.NewDefaultParser(),
		diag:   diag,
		scans:  make(map[string]*packageScan),
	}, nil
}

// Name identifies the strategy.
func (s *Source) Name() string {
	return "go-source"
}

// Supports claims .go files and package directories.
func (s *Source) Supports(path string) bool {
	if strings.EqualFold(filepath.Ext(path), ".go") {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Load scans the package containing path and links every module it
// declares. A package with no annotations loads successfully and exports
// nothing.
func (s *Source) Load(path string) (*Exports, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	dir := path
	if !info.IsDir() {
		dir = filepath.Dir(path)
	}

	scan, err := s.scanPackage(dir)
	if err != nil {
		return nil, err
	}

	exports := NewExports(path)
	lc := &linkContext{
		loader:      s,
		store:       exports.Store(),
		modules:     make(map[*moduleDecl]*routemap.ModuleDescriptor),
		controllers: make(map[*controllerDecl]*routemap.ControllerDescriptor),
	}
	for _, name := range scan.moduleOrder {
		exports.Add(lc.module(scan.modules[name]))
	}
	return exports, nil
}

// scanPackage harvests annotations from every non-test .go file in dir.
// Scans are memoized so import resolution parses each package once per
// process.
func (s *Source) scanPackage(dir string) (*packageScan, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if scan, ok := s.scans[abs]; ok {
		return scan, nil
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, err
	}

	scan := &packageScan{
		dir:         abs,
		modules:     make(map[string]*moduleDecl),
		controllers: make(map[string]*controllerDecl),
		routes:      make(map[string][]routeDecl),
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		if err := s.scanFile(filepath.Join(abs, name), scan); err != nil {
			return nil, err
		}
	}

	s.scans[abs] = scan
	return scan, nil
}

func (s *Source) scanFile(path string, scan *packageScan) error {
	file, err := s.files.ParseGoFile(path)
	if err != nil {
		return err
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			s.scanTypeDecl(d, scan)
		case *ast.FuncDecl:
			s.scanFuncDecl(d, scan)
		}
	}
	return nil
}

func (s *Source) scanTypeDecl(decl *ast.GenDecl, scan *packageScan) {
	for _, spec := range decl.Specs {
		typeSpec, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		doc := typeSpec.Doc
		if doc == nil {
			doc = decl.Doc
		}
		if doc == nil {
			continue
		}

		for _, ann := range s.parseDoc(doc) {
			switch ann.Kind {
			case annotations.ModuleAnnotation:
				scan.addModule(&moduleDecl{
					scan:        scan,
					name:        typeSpec.Name.Name,
					controllers: ann.GetStringSlice("Controllers"),
					imports:     ann.GetStringSlice("Imports"),
				})
			case annotations.ControllerAnnotation:
				scan.addController(&controllerDecl{
					name:   typeSpec.Name.Name,
					prefix: ann.GetString("Prefix"),
				})
			default:
				s.diag.Warn("%s: %s annotation on type %s ignored", ann.Location, ann.Kind, typeSpec.Name.Name)
			}
		}
	}
}

func (s *Source) scanFuncDecl(decl *ast.FuncDecl, scan *packageScan) {
	if decl.Recv == nil || len(decl.Recv.List) == 0 || decl.Doc == nil {
		return
	}
	receiver := receiverTypeName(decl.Recv.List[0].Type)
	if receiver == "" {
		return
	}

	for _, ann := range s.parseDoc(decl.Doc) {
		if ann.Kind != annotations.RouteAnnotation {
			s.diag.Warn("%s: %s annotation on method %s ignored", ann.Location, ann.Kind, decl.Name.Name)
			continue
		}
		scan.routes[receiver] = append(scan.routes[receiver], routeDecl{
			name:   decl.Name.Name,
			method: ann.GetString("method"),
			path:   ann.GetString("path"),
		})
	}
}

// parseDoc extracts the routemap annotations in a doc comment. Malformed
// annotations are reported and dropped; the declaration survives.
func (s *Source) parseDoc(doc *ast.CommentGroup) []*annotations.ParsedAnnotation {
	var parsed []*annotations.ParsedAnnotation
	for _, comment := range doc.List {
		if !annotations.IsAnnotation(comment.Text) {
			continue
		}
		pos := s.files.FileSet().Position(comment.Pos())
		location := annotations.SourceLocation{File: pos.Filename, Line: pos.Line, Column: pos.Column}

		ann, err := s.parser.ParseAnnotation(comment.Text, location)
		if err != nil {
			s.diag.Warn("skipping malformed annotation: %v", err)
			continue
		}
		parsed = append(parsed, ann)
	}
	return parsed
}

// packageDir maps an import path to a directory inside the module that
// contains fromDir.
func (s *Source) packageDir(fromDir, importPath string) (string, error) {
	modulePath, rootDir, err := s.gomod.ModuleRoot(fromDir)
	if err != nil {
		return "", err
	}
	if importPath == modulePath {
		return rootDir, nil
	}
	if strings.HasPrefix(importPath, modulePath+"/") {
		rest := strings.TrimPrefix(importPath, modulePath+"/")
		return filepath.Join(rootDir, filepath.FromSlash(rest)), nil
	}
	return "", fmt.Errorf("%s is outside module %s", importPath, modulePath)
}

func (ps *packageScan) addModule(decl *moduleDecl) {
	if _, exists := ps.modules[decl.name]; !exists {
		ps.moduleOrder = append(ps.moduleOrder, decl.name)
	}
	ps.modules[decl.name] = decl
}

func (ps *packageScan) addController(decl *controllerDecl) {
	ps.controllers[decl.name] = decl
}

func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		if ident, ok := t.X.(*ast.Ident); ok {
			return ident.Name
		}
	}
	return ""
}

// linkContext turns one scan into descriptors wired through a metadata
// store. Descriptors are registered before their imports are linked so
// cyclic imports resolve to the same pointer instead of recursing forever.
type linkContext struct {
	loader      *Source
	store       *routemap.Store
	modules     map[*moduleDecl]*routemap.ModuleDescriptor
	controllers map[*controllerDecl]*routemap.ControllerDescriptor
}

func (lc *linkContext) module(decl *moduleDecl) *routemap.ModuleDescriptor {
	if desc, ok := lc.modules[decl]; ok {
		return desc
	}
	desc := routemap.NewModule(decl.name)
	lc.modules[decl] = desc

	var ctrls []*routemap.ControllerDescriptor
	for _, name := range decl.controllers {
		cdecl, ok := decl.scan.controllers[name]
		if !ok {
			lc.loader.diag.Warn("module %s references unknown controller %s", decl.name, name)
			continue
		}
		ctrls = append(ctrls, lc.controller(decl.scan, cdecl))
	}
	if len(ctrls) > 0 {
		lc.store.Set(desc, routemap.KeyControllers, ctrls)
	}

	var refs []routemap.ImportRef
	for _, entry := range decl.imports {
		refs = append(refs, lc.importRef(decl, entry))
	}
	if len(refs) > 0 {
		lc.store.Set(desc, routemap.KeyImports, refs)
	}
	return desc
}

func (lc *linkContext) controller(scan *packageScan, decl *controllerDecl) *routemap.ControllerDescriptor {
	if desc, ok := lc.controllers[decl]; ok {
		return desc
	}

	routes := scan.routes[decl.name]
	members := make([]*routemap.EndpointDescriptor, 0, len(routes))
	for _, route := range routes {
		endpoint := routemap.NewEndpoint(route.name)
		lc.store.Set(endpoint, routemap.KeyMethod, route.method)
		lc.store.Set(endpoint, routemap.KeyPath, route.path)
		members = append(members, endpoint)
	}

	desc := routemap.NewController(decl.name, members...)
	if decl.prefix != "" {
		lc.store.Set(desc, routemap.KeyPath, decl.prefix)
	}
	lc.controllers[decl] = desc
	return desc
}

// importRef resolves one import entry. Unresolvable entries become the zero
// ImportRef, which the walker skips.
func (lc *linkContext) importRef(from *moduleDecl, entry string) routemap.ImportRef {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return routemap.ImportRef{}
	}
	// Entries with a slash are <import-path>.<ModuleName> references;
	// everything else is a module declared in the same package.
	if strings.Contains(entry, "/") {
		return lc.qualifiedRef(from, entry)
	}

	target, ok := from.scan.modules[entry]
	if !ok {
		lc.loader.diag.Warn("module %s imports unknown module %s", from.name, entry)
		return routemap.ImportRef{}
	}
	return routemap.ImportOf(lc.module(target))
}

func (lc *linkContext) qualifiedRef(from *moduleDecl, entry string) routemap.ImportRef {
	dot := strings.LastIndex(entry, ".")
	if dot < strings.LastIndex(entry, "/") {
		lc.loader.diag.Warn("module %s: import %q is not a <package-path>.<Module> reference", from.name, entry)
		return routemap.ImportRef{}
	}
	importPath, moduleName := entry[:dot], entry[dot+1:]

	dir, err := lc.loader.packageDir(from.scan.dir, importPath)
	if err != nil {
		lc.loader.diag.Warn("module %s: cannot resolve import %s: %v", from.name, entry, err)
		return routemap.ImportRef{}
	}
	scan, err := lc.loader.scanPackage(dir)
	if err != nil {
		lc.loader.diag.Warn("module %s: cannot scan package %s: %v", from.name, importPath, err)
		return routemap.ImportRef{}
	}
	target, ok := scan.modules[moduleName]
	if !ok {
		lc.loader.diag.Warn("module %s: package %s declares no module %s", from.name, importPath, moduleName)
		return routemap.ImportRef{}
	}
	return routemap.ImportOf(lc.module(target))
}
