package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/versotym/rhymetagger"
	"github.com/versotym/rhymetagger/internal/corpusio"
)

var (
	modelFile string
	modelID   int64
)

var tagCmd = &cobra.Command{
	Use:   "tag [poems.json]",
	Short: "Tag rhymes in a JSON corpus",
	Long: `Tags every poem of a JSON corpus with a trained model and prints the
rhyme partners, chains and scheme of each poem as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: tagPoems,
}

func init() {
	for _, c := range []*cobra.Command{tagCmd, evalCmd} {
		c.Flags().StringVarP(&modelFile, "model", "m", "", "model JSON file (default: latest stored model)")
		c.Flags().Int64Var(&modelID, "model-id", 0, "stored model id (default: latest)")
	}
}

func tagPoems(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	doc, err := corpusio.ReadFile(args[0])
	if err != nil {
		return err
	}

	var m *rhymetagger.Model
	if modelFile != "" {
		if m, _, err = loadModel(ctx, nil, modelFile, 0); err != nil {
			return err
		}
	} else {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		if m, _, err = loadModel(ctx, st, "", modelID); err != nil {
			return err
		}
	}

	c := doc.Corpus(m.Alphabet, m.Normalizer())
	tagger := m.Tagger()
	results := make([]rhymetagger.PoemResult, len(c.Poems))
	for i, p := range c.Poems {
		results[i] = tagger.TagPoem(p)
	}
	logger.Debug("tagged corpus", zap.String("file", args[0]), zap.Int("poems", len(c.Poems)))
	return corpusio.WriteTagged(cmd.OutOrStdout(), c, results)
}
