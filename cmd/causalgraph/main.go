// Command causalgraph runs the causal-assertion-mining pipeline
// against a SemMedDB-shaped Postgres store. Grounded on
// steveyegge-beads/cmd/bd-examples/main.go's cobra root-command shape
// (package-level flag vars bound via PersistentFlags, subcommands
// added to the root, Execute() with os.Exit(1) on error).
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/rawblock/causalgraph-engine/cmd/causalgraph/configsource"
	"github.com/rawblock/causalgraph-engine/internal/api"
	"github.com/rawblock/causalgraph-engine/internal/engine"
	"github.com/rawblock/causalgraph-engine/internal/store"
	"github.com/rawblock/causalgraph-engine/pkg/models"
)

var (
	configFile   string
	configName   string
	degreeFlag   int
	thresholdFlag int
	outputDir    string
	verbose      bool
	servePort    int
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "causalgraph",
		Short: "Mine bounded causal-assertion graphs from a SemMedDB-shaped predication store",
	}
	root.PersistentFlags().StringVar(&configFile, "config-file", "configs/causalgraph.yaml", "path to the named exposure/outcome configuration file")
	root.PersistentFlags().StringVar(&configName, "config", "", "name of the exposure/outcome configuration to run")
	root.PersistentFlags().IntVar(&degreeFlag, "degree", 0, "override the configured hop degree (0 = use config)")
	root.PersistentFlags().IntVar(&thresholdFlag, "threshold", 0, "override the configured evidence-count threshold (0 = use config)")
	root.PersistentFlags().StringVar(&outputDir, "output", "", "override the configured output directory")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "log every SQL statement issued to the store")

	root.AddCommand(runCmd(), preflightCmd(), serveCmd())
	return root
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Execute the full pipeline for one named configuration and emit artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, es, err := resolve(cmd.Context())
			if err != nil {
				return err
			}
			defer es.Close()

			outcome, err := engine.Run(cmd.Context(), cfg, es, nil)
			if err != nil {
				return fmt.Errorf("run failed: %w", err)
			}
			if !outcome.EvidenceFound {
				fmt.Printf("no evidence found for %q — see %s/run_outcome.json\n", configName, cfg.OutputDir)
				os.Exit(1)
			}
			fmt.Printf("run %s complete: %d nodes, %d edges, artifacts under %s\n",
				outcome.SnapshotID, len(outcome.Graph.Nodes), len(outcome.Graph.Edges), cfg.OutputDir)
			return nil
		},
	}
}

func preflightCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Check whether any qualifying evidence exists without running the full pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, es, err := resolve(cmd.Context())
			if err != nil {
				return err
			}
			defer es.Close()

			exists, err := es.ExistsEvidence(cmd.Context(), cfg.ExposureCUIs, cfg.OutcomeCUIs, cfg.Predicates, cfg.ThresholdForHop(1))
			if err != nil {
				return fmt.Errorf("preflight query failed: %w", err)
			}
			if !exists {
				fmt.Println("evidence absent")
				os.Exit(1)
			}
			fmt.Println("evidence present")
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the run-progress/health HTTP and WebSocket API",
		RunE: func(cmd *cobra.Command, args []string) error {
			configs, err := configsource.LoadNamedConfigs(configFile)
			if err != nil {
				return fmt.Errorf("loading named configs: %w", err)
			}

			es, err := store.Connect(cmd.Context(), configsource.ConnectionString())
			if err != nil {
				return fmt.Errorf("connecting to store: %w", err)
			}
			es.Verbose = verbose
			defer es.Close()

			hub := api.NewHub()
			go hub.Run()

			router := api.SetupRouter(es, hub, configs)
			addr := fmt.Sprintf(":%d", servePort)
			log.Printf("[causalgraph] serving on %s", addr)
			return router.Run(addr)
		},
	}
	cmd.Flags().IntVar(&servePort, "port", 8080, "HTTP port to listen on")
	return cmd
}

// resolve loads the named configuration, applies any flag overrides,
// and connects to the evidence store — the common setup shared by
// `run` and `preflight`.
func resolve(ctx context.Context) (models.Configuration, *store.PostgresStore, error) {
	if configName == "" {
		return models.Configuration{}, nil, &models.ConfigError{Field: "config", Reason: "--config is required"}
	}

	configs, err := configsource.LoadNamedConfigs(configFile)
	if err != nil {
		return models.Configuration{}, nil, err
	}
	cfg, ok := configs[configName]
	if !ok {
		return models.Configuration{}, nil, &models.ConfigError{Field: "config", Reason: fmt.Sprintf("no such named config %q in %s", configName, configFile)}
	}
	cfg = configsource.ApplyFlagOverrides(cfg, configsource.FlagOverrides{
		Degree:    degreeFlag,
		Threshold: thresholdFlag,
		OutputDir: outputDir,
		Verbose:   verbose,
	})
	if err := cfg.Validate(); err != nil {
		return models.Configuration{}, nil, err
	}

	es, err := store.Connect(ctx, configsource.ConnectionString())
	if err != nil {
		return models.Configuration{}, nil, err
	}
	es.Verbose = cfg.Verbose
	return cfg, es, nil
}
