package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/manuscriptlabs/manuscript/internal/analysis"
	"github.com/manuscriptlabs/manuscript/internal/config"
	"github.com/manuscriptlabs/manuscript/internal/logging"
	"github.com/manuscriptlabs/manuscript/internal/merge"
	"github.com/manuscriptlabs/manuscript/internal/store"
)

var (
	cfgFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "manuscript",
		Short: "Versioned document store with diff and merge",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	setupFlags(rootCmd)

	rootCmd.AddCommand(
		newServeCommand(),
		newCreateCommand(),
		newListCommand(),
		newShowCommand(),
		newUpdateCommand(),
		newHistoryCommand(),
		newDeleteCommand(),
		newRollbackCommand(),
		newCompareCommand(),
		newBranchCommand(),
		newMergeCommand(),
		newResolveCommand(),
		newSummarizeCommand(),
		newAnalyzeCommand(),
		newSuggestCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("storage-root", defaults.GetString("storage.root"), "Directory holding document storage")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address for serve")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("ai-model", defaults.GetString("ai.model"), "Model for analysis commands")

	bindFlag(cmd, "storage.root", "storage-root")
	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "ai.model", "ai-model")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile == "" {
		return nil
	}
	viper.SetConfigFile(cfgFile)
	return viper.ReadInConfig()
}

// runtime bundles the collaborators the subcommands operate on.
type runtime struct {
	cfg    config.AppConfig
	logger *zap.Logger
	store  *store.Store
	engine *merge.Engine
}

func newRuntime() (*runtime, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	documentStore, err := store.NewStore(store.StoreConfig{
		Root:   cfg.StorageRoot,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	engine, err := merge.NewEngine(merge.EngineConfig{
		Store:  documentStore,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	return &runtime{
		cfg:    cfg,
		logger: logger,
		store:  documentStore,
		engine: engine,
	}, nil
}

func (r *runtime) analyzer() *analysis.Analyzer {
	return analysis.NewAnalyzer(analysis.Config{
		APIKey:    r.cfg.AIAPIKey,
		Model:     r.cfg.AIModel,
		MaxTokens: r.cfg.AIMaxTokens,
		Logger:    r.logger,
	})
}
