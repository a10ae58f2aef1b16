// Package loader turns a file path into module exports. Two strategies are
// provided: annotated Go source and a TOML manifest. A Chain tries every
// strategy that claims the path and falls back on failure, so the caller
// only ever sees a single Load call.
package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/toyz/routemap/internal/errors"
	"github.com/toyz/routemap/internal/utils"
)

// Loader is one loading strategy.
type Loader interface {
	// Name identifies the strategy in diagnostics and error hints.
	Name() string
	// Supports reports whether the strategy claims the path, judged by
	// extension or file type only. Claiming a path does not guarantee
	// loading it will succeed.
	Supports(path string) bool
	// Load reads the path and returns the modules it declares.
	Load(path string) (*Exports, error)
}

// Chain tries loaders in order and returns the first successful result.
type Chain struct {
	loaders []Loader
	diag    *utils.DiagnosticSystem
}

// NewChain builds a chain over the given loaders.
func NewChain(diag *utils.DiagnosticSystem, loaders ...Loader) *Chain {
	if diag == nil {
		diag = utils.NewDiagnosticSystem(utils.DiagnosticSilent, nil)
	}
	return &Chain{loaders: loaders, diag: diag}
}

// NewDefaultChain builds the standard chain: annotated Go source first,
// TOML manifest second.
func NewDefaultChain(diag *utils.DiagnosticSystem) (*Chain, error) {
	source, err := NewSource(diag)
	if err != nil {
		return nil, err
	}
	manifest, err := NewManifest(diag)
	if err != nil {
		return nil, err
	}
	return NewChain(diag, source, manifest), nil
}

// Load resolves path through the chain. A missing path is a file-not-found
// error; a path no strategy claims, or one every claiming strategy fails
// on, is a load failure whose hints name what was attempted.
func (c *Chain) Load(path string) (*Exports, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileNotFound(path)
		}
		return nil, errors.Wrapf(errors.LoadFailureCode, err, "cannot access %s", path)
	}

	var attempted []string
	var lastErr error
	for _, l := range c.loaders {
		if !l.Supports(path) {
			continue
		}
		c.diag.Verbose("trying %s loader for %s", l.Name(), path)
		exports, err := l.Load(path)
		if err == nil {
			c.diag.Verbose("%s loader exported %d module(s)", l.Name(), exports.Len())
			return exports, nil
		}
		c.diag.Verbose("%s loader failed: %v", l.Name(), err)
		attempted = append(attempted, l.Name())
		lastErr = err
	}

	if len(attempted) == 0 {
		return nil, errors.LoadFailure(path, fmt.Errorf("no loader recognizes this file type")).
			WithHint("supported inputs: annotated Go source (.go or a package directory) and TOML manifests (.toml)")
	}
	return nil, errors.LoadFailure(path, lastErr).
		WithHint("attempted strategies: " + strings.Join(attempted, ", "))
}
