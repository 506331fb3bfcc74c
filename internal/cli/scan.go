package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sigcat/internal/catalog"
	"sigcat/internal/config"
	"sigcat/internal/pipeline"
	"sigcat/internal/watcher"
)

var (
	rootFlag            string
	outputFlag          string
	formatFlag          string
	ignoreFunctionsFlag string
	strictFlag          bool
	diagnosticsFlag     bool
	watchFlag           bool
	quietFlag           bool
)

// scanCmd represents the scan command.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Extract and catalog the public API signatures of a source tree",
	Long: `Scan walks the library source tree, extracts every top-level public
function declaration, validates it against the API rules (C ABI, no
qualifiers, no generics, inline/no_panic markers, numeric type whitelist),
and emits the ordered catalog.

Examples:
  # Catalog the current directory as JSON on stdout
  sigcat scan

  # Catalog a libm checkout into a file, failing on any rule violation
  sigcat scan --root ./libm/src --output catalog.json --strict

  # Persist into a SQLite database
  sigcat scan --root ./libm/src --format sqlite --output catalog.db

  # Re-catalog whenever a source file changes
  sigcat scan --root ./libm/src --output catalog.json --watch
`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringVar(&rootFlag, "root", "", "library source tree root (overrides config)")
	scanCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "output path (stdout for json when empty)")
	scanCmd.Flags().StringVar(&formatFlag, "format", "", "output format: json or sqlite")
	scanCmd.Flags().StringVar(&ignoreFunctionsFlag, "ignore-functions", "", "comma-delimited identifiers to skip")
	scanCmd.Flags().BoolVar(&strictFlag, "strict", false, "fail the run if any validation error is recorded")
	scanCmd.Flags().BoolVar(&diagnosticsFlag, "diagnostics", false, "emit one line per validation error")
	scanCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "watch for file changes and re-catalog")
	scanCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "disable progress and non-error output")
}

// buildConfig loads the file config and layers explicit flags over it.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cmd.Flags().Changed("root") {
		cfg.Source.Root = rootFlag
	}
	if cmd.Flags().Changed("output") {
		cfg.Output.Path = outputFlag
	}
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = formatFlag
	}
	if cmd.Flags().Changed("ignore-functions") {
		cfg.Rules.IgnoreFunctions = ignoreFunctionsFlag
	}
	if cmd.Flags().Changed("strict") {
		cfg.Rules.Strict = strictFlag
	}
	if cmd.Flags().Changed("diagnostics") {
		cfg.Rules.Diagnostics = diagnosticsFlag
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		cancel()
	}()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	p, err := pipeline.New(pipeline.Options{
		Root:            cfg.Source.Root,
		Extensions:      cfg.Source.Extensions,
		IgnorePaths:     cfg.Source.Ignore,
		IgnoreFunctions: cfg.Rules.IgnoredFunctions(),
		Strict:          cfg.Rules.Strict,
		Diagnostics:     cfg.Rules.Diagnostics,
		Progress:        NewCLIProgressReporter(quietFlag),
	})
	if err != nil {
		return err
	}
	defer p.Close()

	if err := runOnce(ctx, p, cfg); err != nil {
		return err
	}

	if watchFlag {
		return runWatch(ctx, p, cfg)
	}
	return nil
}

// runOnce executes one pipeline pass and emits the catalog to the
// configured target.
func runOnce(ctx context.Context, p *pipeline.Pipeline, cfg *config.Config) error {
	result, runErr := p.Run(ctx)
	if result == nil {
		return runErr
	}

	if err := emit(result.Catalog, cfg); err != nil {
		return err
	}
	// Strict-mode validation failure surfaces after the catalog is emitted:
	// errors are reporting plus exit status, never lost output.
	return runErr
}

// emit writes the catalog through the configured generation target.
func emit(cat *catalog.Catalog, cfg *config.Config) error {
	switch cfg.Output.Format {
	case config.FormatSQLite:
		return cat.Emit(catalog.NewSQLiteTarget(cfg.Output.Path, cfg.Source.Root))
	default:
		if cfg.Output.Path == "" {
			return cat.Emit(catalog.NewJSONTarget(os.Stdout))
		}
		f, err := os.Create(cfg.Output.Path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		return cat.Emit(catalog.NewJSONTarget(f))
	}
}

// runWatch re-runs the pipeline after each debounced change until
// interrupted.
func runWatch(ctx context.Context, p *pipeline.Pipeline, cfg *config.Config) error {
	w, err := watcher.New(cfg.Source.Root, cfg.Source.Extensions)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Stop()

	runs := make(chan struct{}, 1)
	err = w.Start(ctx, func(files []string) {
		select {
		case runs <- struct{}{}:
		default:
			// A run is already queued; the pending pass picks up all
			// accumulated changes anyway.
		}
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	if !quietFlag {
		fmt.Println("Watching for changes (Ctrl+C to stop)...")
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-runs:
			if err := runOnce(ctx, p, cfg); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				// Keep watching; a broken intermediate state is expected
				// while files are being edited.
				if !quietFlag {
					fmt.Fprintln(os.Stderr, err)
				}
			}
		}
	}
}
