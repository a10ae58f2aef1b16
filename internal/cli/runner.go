package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/toyz/routemap/internal/loader"
	"github.com/toyz/routemap/internal/render"
	"github.com/toyz/routemap/internal/utils"
	"github.com/toyz/routemap/pkg/routemap"
)

// Runner wires the discovery pipeline: load the entry path, pick the entry
// module, walk the graph, render the report. The report goes to out; all
// diagnostics and walk traces go to the error stream.
type Runner struct {
	cfg    *Config
	out    io.Writer
	diag   *utils.DiagnosticSystem
	tracer *log.Logger
}

// NewRunner builds a runner. Each run gets its own id in the walk traces so
// interleaved invocations can be told apart in captured logs.
func NewRunner(cfg *Config, out, errOut io.Writer, diag *utils.DiagnosticSystem) *Runner {
	tracer := log.NewWithOptions(errOut, log.Options{Prefix: "walk"})
	tracer.SetLevel(traceLevel(cfg))
	return &Runner{
		cfg:    cfg,
		out:    out,
		diag:   diag,
		tracer: tracer.With("run", uuid.NewString()),
	}
}

func traceLevel(cfg *Config) log.Level {
	switch {
	case cfg.Quiet:
		return log.ErrorLevel
	case cfg.Verbose:
		return log.DebugLevel
	default:
		return log.WarnLevel
	}
}

// Run discovers routes from entryPath starting at moduleName and writes the
// report. Fatal problems come back as coded errors for the command layer to
// turn into exit codes.
func (r *Runner) Run(entryPath, moduleName string) error {
	r.diag.Info("loading %s", entryPath)

	chain, err := loader.NewDefaultChain(r.diag)
	if err != nil {
		return err
	}
	exports, err := chain.Load(entryPath)
	if err != nil {
		return err
	}
	r.diag.Verbose("%s exports: %s", entryPath, strings.Join(exports.Names(), ", "))

	module, err := exports.Module(moduleName)
	if err != nil {
		return err
	}

	walker := routemap.NewWalker(exports.Store(), routemap.WithTracer(r.tracer))
	routes, stats := walker.DiscoverRoutes(module, r.cfg.Prefix)

	format := render.FormatText
	if r.cfg.JSON {
		format = render.FormatJSON
	}
	if err := render.Render(r.out, routes, format); err != nil {
		return err
	}

	r.diag.Success("visited %d module(s), found %d route(s) in %d controller(s)",
		stats.ModulesVisited, stats.Routes, stats.ControllersFound)
	if stats.ModulesSkipped > 0 {
		r.diag.Warn("skipped %d module(s) with unreadable metadata", stats.ModulesSkipped)
	}
	if stats.MembersSkipped > 0 {
		r.diag.Warn("skipped %d member(s) with unreadable route metadata", stats.MembersSkipped)
	}
	return nil
}
