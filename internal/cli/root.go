// Package cli assembles the routemap command: flag and config handling, the
// discovery runner, and exit code mapping.
package cli

import (
	"context"
	stderrors "errors"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/toyz/routemap/internal/errors"
	"github.com/toyz/routemap/internal/utils"
)

// Version is the semantic version, set via -ldflags at release time.
var Version = "dev"

// DefaultModuleName is walked when no module name argument is given.
const DefaultModuleName = "AppModule"

// NewRootCmd builds the routemap command. Tests run it directly; main wraps
// it with Execute.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "routemap <entry-path> [module-name]",
		Short: "Map HTTP routes without running the app",
		Long: `routemap statically discovers the HTTP routes an application would serve.

Point it at an annotated Go file (or package directory), or at a TOML
manifest, and it walks the module graph from the entry module, collecting
every controller route along the way. Nothing is compiled or executed.

The entry module defaults to AppModule when no module name is given.`,
		Example: `  routemap ./cmd/api/app.go
  routemap ./cmd/api/app.go ApiModule --json
  routemap ./routes.toml --prefix /api/v2`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(cmd.Flags(), cfgFile)
			if err != nil {
				return err
			}
			if cfg.NoColor {
				color.NoColor = true
			}

			diag := utils.NewDiagnosticSystem(diagnosticLevel(cfg), cmd.ErrOrStderr())
			if cfg.NoColor {
				diag.DisableColors()
			}

			moduleName := DefaultModuleName
			if len(args) > 1 {
				moduleName = args[1]
			}

			runner := NewRunner(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), diag)
			if err := runner.Run(args[0], moduleName); err != nil {
				diag.Error("%v", err)
				diag.Hints(errors.HintsOf(err))
				cmd.SilenceErrors = true
				cmd.SilenceUsage = true
				return &ExitError{Code: exitCodeFor(err), Err: err}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Bool("json", false, "emit the route map as JSON")
	flags.String("prefix", "", "global path prefix applied to every route")
	flags.BoolP("verbose", "v", false, "report per-module progress while walking")
	flags.BoolP("quiet", "q", false, "only report errors")
	flags.Bool("no-color", false, "disable colored output")
	flags.StringVar(&cfgFile, "config", "", "config file (default ./.routemap.toml)")

	return cmd
}

func diagnosticLevel(cfg *Config) utils.DiagnosticLevel {
	switch {
	case cfg.Quiet:
		return utils.DiagnosticError
	case cfg.Verbose:
		return utils.DiagnosticVerbose
	default:
		return utils.DiagnosticInfo
	}
}

// Execute runs the root command and exits the process on failure. The only
// os.Exit calls live here; everything below returns errors.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		NewRootCmd(),
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if stderrors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
