package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/docnet/pkg/config"
	"github.com/matzehuels/docnet/pkg/docnet"
	"github.com/matzehuels/docnet/pkg/storage"
)

// defaultConfigPath is tried when --config is not given. A missing default
// file is not an error; the built-in defaults apply instead.
const defaultConfigPath = "docnet.toml"

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package during initialization with
// values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the docnet CLI and returns an error if any command fails.
//
// The function sets up the root command with all subcommands (stats, render),
// configures logging based on the --verbose flag, and executes the command
// tree. The logger is attached to the context and accessible to all commands
// via loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "docnet",
		Short:        "docnet inspects and renders document-graph snapshots",
		Long:         `docnet is a CLI for working with docnet snapshot files: print graph statistics and render the stored graph as DOT or SVG.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("docnet %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newStatsCmd())
	root.AddCommand(newRenderCmd())

	return root.ExecuteContext(ctx)
}

// loadConfig resolves the effective configuration. An explicitly named file
// must exist; the default path may be absent.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		path = defaultConfigPath
		if _, err := os.Stat(path); err != nil {
			return config.Default(), nil
		}
	}
	return config.Load(path)
}

// openStore loads the snapshot the configuration points at.
// The caller must Close the returned store.
func openStore(ctx context.Context, cfgPath string) (*docnet.Store, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, err
	}

	log := loggerFromContext(ctx)
	log.Debug("opening backend", "backend", cfg.Store.Backend)

	var backend storage.Backend
	if backend, err = cfg.OpenBackend(ctx); err != nil {
		return nil, err
	}

	p := newProgress(log)
	s, err := docnet.Open(ctx, backend, docnet.WithLogger(log))
	if err != nil {
		backend.Close()
		return nil, err
	}
	p.done(fmt.Sprintf("Loaded %d vertices, %d edges", s.Len(), s.EdgeCount()))
	return s, nil
}
