package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/versotym/rhymetagger"
	"github.com/versotym/rhymetagger/internal/corpusio"
)

var (
	trainCorpus string
	trainOut    string
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a rhyme model",
	Long: `Trains a model on the stored corpus of the configured language, or on
a JSON corpus given with --corpus. The model and the final tagging are
saved to the store; --out also writes the model as JSON. The evaluation
against the gold scheme labels is printed to stdout.`,
	Args: cobra.NoArgs,
	RunE: trainModel,
}

func init() {
	trainCmd.Flags().StringVar(&trainCorpus, "corpus", "", "train on a JSON corpus file instead of the store")
	trainCmd.Flags().StringVarP(&trainOut, "out", "o", "", "also write the model to this JSON file")
}

func trainModel(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	opts := []rhymetagger.Option{rhymetagger.WithLogger(logger)}
	if cfg.AlphabetFile != "" {
		a, err := cfg.Alphabet()
		if err != nil {
			return err
		}
		opts = append(opts, rhymetagger.WithAlphabet(a))
	}
	trainer, err := rhymetagger.NewTrainer(cfg.Tagger, opts...)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	var corpus *rhymetagger.Corpus
	if trainCorpus != "" {
		doc, err := corpusio.ReadFile(trainCorpus)
		if err != nil {
			return err
		}
		m := &rhymetagger.Model{Settings: trainer.Settings(), Alphabet: trainer.Alphabet()}
		corpus = doc.Corpus(m.Alphabet, m.Normalizer())
	} else {
		corpus, err = st.LoadCorpus(ctx, cfg.Tagger.Language)
		if err != nil {
			return err
		}
	}
	if len(corpus.Poems) == 0 {
		return errors.New("no poems to train on; run import first or pass --corpus")
	}

	run, err := trainer.Train(ctx, corpus)
	if err != nil {
		return err
	}

	id, err := st.SaveModel(ctx, run.Model, run.State, len(run.Iterations))
	if err != nil {
		return err
	}
	if err := st.SaveResults(ctx, id, run.Results); err != nil {
		return err
	}
	logger.Info("saved model",
		zap.Int64("model_id", id),
		zap.Stringer("state", run.State),
		zap.Int("entries", run.Model.Probabilities.Len()))

	if trainOut != "" {
		if err := rhymetagger.SaveModel(trainOut, run.Model); err != nil {
			return err
		}
		logger.Info("wrote model", zap.String("file", trainOut))
	}
	return writeJSON(cmd.OutOrStdout(), run.Evaluation().Report())
}
