// hub-renamer - bulk entity renamer for a home-automation hub.
//
// This is the main entry point for the hub-renamer CLI. It bulk-renames
// entity ids and friendly names over the hub's WebSocket control API,
// driven by a CSV plan or a regex search/replace over the live registry.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nerrad567/hub-renamer/internal/hub"
	"github.com/nerrad567/hub-renamer/internal/infrastructure/config"
	"github.com/nerrad567/hub-renamer/internal/infrastructure/logging"
	"github.com/nerrad567/hub-renamer/internal/plan"
	"github.com/nerrad567/hub-renamer/internal/registry"
	"github.com/nerrad567/hub-renamer/internal/rename"
	"github.com/nerrad567/hub-renamer/internal/render"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// errPartialFailure marks a run where the hub was reached but some
// renames failed. main maps it to exit code 2, distinct from fatal
// errors (exit 1) where nothing happened.
var errPartialFailure = errors.New("some renames failed")

var configFlag string

var rootCmd = &cobra.Command{
	Use:   "hub-renamer",
	Short: "Bulk-rename hub entities from a CSV plan or regex",
	Long: `hub-renamer bulk-renames entity ids and friendly names in a
home-automation hub over its WebSocket control API.

Plans come from a CSV file (old_entity_id,new_entity_id,
old_friendly_name,new_friendly_name) or from a regex search/replace
over the live entity registry. Every row gets exactly one outcome in
the final report; conflicting or already-applied rows are skipped,
and a failed row never blocks the rows after it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// Local .env may carry HUB_RENAMER_TOKEN; missing file is fine.
		_ = godotenv.Load()
	},
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd.Version = fmt.Sprintf("%s (%s)", version, commit)
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default "+defaultConfigPath+")")
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(applyCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, errPartialFailure) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func listCmd() *cobra.Command {
	var search, output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registry entities, optionally filtered by regex",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSnapshot(cmd.Context(), func(_ context.Context, _ *hub.Session, snap *registry.Snapshot, log *logging.Logger) error {
				rows, err := plan.Match(snap.Entries(), search)
				if err != nil {
					return err
				}
				sortByFriendlyName(rows)

				render.PlanTable(os.Stdout, rows)
				return writePlanFile(output, rows, log)
			})
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "regex filter over entity ids (default: all)")
	cmd.Flags().StringVar(&output, "output", "", "export the listing as a CSV plan")
	return cmd
}

func planCmd() *cobra.Command {
	var search, replace, output string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Preview a regex-derived rename plan without applying it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if search == "" || !cmd.Flags().Changed("replace") {
				return errors.New("plan requires --search and --replace")
			}
			return withSnapshot(cmd.Context(), func(_ context.Context, _ *hub.Session, snap *registry.Snapshot, log *logging.Logger) error {
				rows, err := plan.FromRegex(snap.Entries(), search, replace)
				if err != nil {
					return err
				}
				sortByFriendlyName(rows)

				render.PlanTable(os.Stdout, rows)
				return writePlanFile(output, rows, log)
			})
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "regex to match entity ids")
	cmd.Flags().StringVar(&replace, "replace", "", "replacement template ($1-style references allowed)")
	cmd.Flags().StringVar(&output, "output", "", "export the plan as a CSV file")
	return cmd
}

func applyCmd() *cobra.Command {
	var input, search, replace, output string
	var yes bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Resolve and apply a rename plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if input == "" && search == "" {
				return errors.New("apply requires --input or --search/--replace")
			}
			if input != "" && search != "" {
				return errors.New("--input and --search cannot be used together")
			}
			if search != "" && !cmd.Flags().Changed("replace") {
				return errors.New("--replace is required with --search")
			}

			// A CSV plan is read before connecting; a bad file should
			// fail the run before the hub is touched.
			var rows []rename.Row
			if input != "" {
				var err error
				rows, err = plan.ReadCSV(input)
				if err != nil {
					return err
				}
			}

			return withSnapshot(cmd.Context(), func(ctx context.Context, session *hub.Session, snap *registry.Snapshot, log *logging.Logger) error {
				if input == "" {
					var err error
					rows, err = plan.FromRegex(snap.Entries(), search, replace)
					if err != nil {
						return err
					}
					sortByFriendlyName(rows)
				}
				if len(rows) == 0 {
					fmt.Println("nothing to rename")
					return nil
				}

				render.PlanTable(os.Stdout, rows)
				if err := writePlanFile(output, rows, log); err != nil {
					return err
				}

				if !yes && !confirm(os.Stdin) {
					fmt.Println("renaming aborted")
					return nil
				}

				changes := rename.Resolve(rows, snap)
				outcomes := rename.Execute(ctx, changes, session, log)
				report := rename.NewReport(outcomes)

				render.ReportTable(os.Stdout, report)
				if !report.Ok() {
					return fmt.Errorf("%w: %d of %d rows", errPartialFailure, report.Failed, report.Total())
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "CSV plan to apply")
	cmd.Flags().StringVar(&search, "search", "", "regex to match entity ids")
	cmd.Flags().StringVar(&replace, "replace", "", "replacement template ($1-style references allowed)")
	cmd.Flags().StringVar(&output, "output", "", "export the plan as a CSV file before applying")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "apply without the confirmation prompt")
	return cmd
}

// withSnapshot connects, authenticates, loads the registry snapshot,
// and hands control to fn. Fatal errors here mean nothing was renamed.
func withSnapshot(ctx context.Context, fn func(ctx context.Context, session *hub.Session, snap *registry.Snapshot, log *logging.Logger) error) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return err
	}

	log := logging.New(cfg.Logging, version)

	session, err := hub.Connect(ctx, cfg.Hub, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			log.Warn("error closing session", "error", closeErr)
		}
	}()

	snap, err := registry.Load(ctx, session)
	if err != nil {
		return err
	}
	log.Info("registry snapshot loaded", "entities", snap.Len())

	return fn(ctx, session, snap, log)
}

// getConfigPath returns the configuration file path.
// Precedence: --config flag, HUB_RENAMER_CONFIG, default.
func getConfigPath() string {
	if configFlag != "" {
		return configFlag
	}
	if path := os.Getenv("HUB_RENAMER_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// writePlanFile exports rows to a CSV plan when a path was given.
func writePlanFile(path string, rows []rename.Row, log *logging.Logger) error {
	if path == "" {
		return nil
	}
	if err := plan.WriteCSV(path, rows); err != nil {
		return err
	}
	log.Info("plan written", "path", path, "rows", len(rows))
	return nil
}

// confirm asks the operator for a y/N answer. Anything but an explicit
// yes aborts.
func confirm(r *os.File) bool {
	fmt.Print("\nProceed with renaming? (y/N): ")
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// sortByFriendlyName orders regex-derived plans for readable previews.
// CSV plans are never sorted; their file order is significant.
func sortByFriendlyName(rows []rename.Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].OldFriendlyName < rows[j].OldFriendlyName
	})
}
