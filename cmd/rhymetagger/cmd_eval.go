package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/versotym/rhymetagger"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate a model against the stored gold schemes",
	Long: `Tags the stored corpus of the configured language with a model and
prints precision, recall and F1 per period and over all poems.`,
	Args: cobra.NoArgs,
	RunE: evaluateModel,
}

func evaluateModel(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	m, id, err := loadModel(ctx, st, modelFile, modelID)
	if err != nil {
		return err
	}
	corpus, err := st.LoadCorpus(ctx, cfg.Tagger.Language)
	if err != nil {
		return err
	}

	tagger := m.Tagger()
	results := make([]rhymetagger.PoemResult, len(corpus.Poems))
	for i, p := range corpus.Poems {
		results[i] = tagger.TagPoem(p)
	}
	stats := rhymetagger.Evaluate(corpus, results)

	all, _ := stats.Stratum(rhymetagger.AllStratum)
	logger.Info("evaluated model",
		zap.Int64("model_id", id),
		zap.Int("poems", len(corpus.Poems)),
		zap.Stringer("precision", all.Precision()),
		zap.Stringer("recall", all.Recall()),
		zap.Stringer("f1", all.F1()))
	return writeJSON(cmd.OutOrStdout(), stats.Report())
}
