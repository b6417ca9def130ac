// Command rhymetagger trains rhyme models on poetry corpora and tags rhymes.
//
//	rhymetagger import corpus.json
//	rhymetagger train --out model.json
//	rhymetagger tag --model model.json poems.json
//	rhymetagger eval
//	rhymetagger results --model-id 3
//	rhymetagger export corpus.json
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/versotym/rhymetagger/internal/config"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rhymetagger",
	Short: "Unsupervised rhyme detection in poetry",
	Long: `rhymetagger learns which line-final words rhyme from an untagged
corpus of poems with phonetic transcriptions, then tags rhymes in new poems.

Training bootstraps from words that often co-occur at the ends of nearby
lines and iterates until the tagging stops changing.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		logger, err = cfg.Logging.Logger(verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "rhymetagger.yaml", "configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(importCmd, exportCmd, trainCmd, tagCmd, evalCmd, resultsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
