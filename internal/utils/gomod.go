package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// GoModParser resolves the Go module containing a directory. Results are
// cached because discovery resolves qualified imports file by file and most
// of them live under the same module root.
type GoModParser struct {
	moduleNames map[string]string // go.mod path -> declared module path
	modFiles    map[string]string // directory -> nearest go.mod path
}

// NewGoModParser creates a parser with empty caches.
func NewGoModParser() *GoModParser {
	return &GoModParser{
		moduleNames: make(map[string]string),
		modFiles:    make(map[string]string),
	}
}

// FindGoModFile walks up from dir to the filesystem root and returns the
// path of the nearest go.mod.
func (p *GoModParser) FindGoModFile(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}

	if cached, ok := p.modFiles[abs]; ok {
		return cached, nil
	}

	current := abs
	for {
		candidate := filepath.Join(current, "go.mod")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			p.modFiles[abs] = candidate
			return candidate, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no go.mod found in %s or any parent directory", abs)
		}
		current = parent
	}
}

// ParseModuleName reads the module path declared by the go.mod at path.
func (p *GoModParser) ParseModuleName(path string) (string, error) {
	if cached, ok := p.moduleNames[path]; ok {
		return cached, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	file, err := modfile.Parse(path, data, nil)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", path, err)
	}
	if file.Module == nil || file.Module.Mod.Path == "" {
		return "", fmt.Errorf("%s declares no module path", path)
	}

	p.moduleNames[path] = file.Module.Mod.Path
	return file.Module.Mod.Path, nil
}

// ModuleRoot returns the module path and root directory of the Go module
// containing dir.
func (p *GoModParser) ModuleRoot(dir string) (modulePath, rootDir string, err error) {
	gomod, err := p.FindGoModFile(dir)
	if err != nil {
		return "", "", err
	}
	modulePath, err = p.ParseModuleName(gomod)
	if err != nil {
		return "", "", err
	}
	return modulePath, filepath.Dir(gomod), nil
}
