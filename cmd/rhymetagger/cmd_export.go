package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/versotym/rhymetagger"
	"github.com/versotym/rhymetagger/internal/corpusio"
)

var exportCmd = &cobra.Command{
	Use:   "export [out.json]",
	Short: "Export the stored corpus as JSON",
	Long: `Writes the stored poems of the configured language in the JSON corpus
format, one line per rhyme word. Without a file argument the document
goes to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: exportCorpus,
}

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Print the stored tagging of a model",
	Long: `Prints the rhymes saved by train for a stored model, poem by poem, in
the same JSON form as the tag command. Poems without stored links are
listed unrhymed.`,
	Args: cobra.NoArgs,
	RunE: printResults,
}

func init() {
	resultsCmd.Flags().Int64Var(&modelID, "model-id", 0, "stored model id (default: latest)")
}

func exportCorpus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	c, err := st.LoadCorpus(ctx, cfg.Tagger.Language)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if len(args) == 1 {
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("create %s: %w", args[0], err)
		}
		defer f.Close()
		w = f
	}
	if err := corpusio.Encode(w, corpusio.FromCorpus(cfg.Tagger.Language, c)); err != nil {
		return fmt.Errorf("export corpus: %w", err)
	}
	logger.Info("exported corpus", zap.Int("poems", len(c.Poems)), zap.Int("lines", c.NumLines()))
	return nil
}

func printResults(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	id := modelID
	if id == 0 {
		if id, err = st.LatestModelID(ctx); err != nil {
			return err
		}
	}
	stored, err := st.LoadResults(ctx, id)
	if err != nil {
		return err
	}
	c, err := st.LoadCorpus(ctx, cfg.Tagger.Language)
	if err != nil {
		return err
	}
	logger.Debug("loaded results", zap.Int64("model_id", id), zap.Int("poems", len(stored)))
	return corpusio.WriteTagged(cmd.OutOrStdout(), c, alignResults(c, stored))
}

// alignResults orders stored results like the poems of c.
func alignResults(c *rhymetagger.Corpus, stored []rhymetagger.PoemResult) []rhymetagger.PoemResult {
	byID := make(map[string]rhymetagger.PoemResult, len(stored))
	for _, r := range stored {
		byID[r.PoemID] = r
	}
	out := make([]rhymetagger.PoemResult, len(c.Poems))
	for i, p := range c.Poems {
		r, ok := byID[p.ID]
		if !ok {
			r = rhymetagger.PoemResult{
				PoemID: p.ID,
				Tagged: rhymetagger.NewRelation(),
				Gold:   rhymetagger.NewRelation(),
			}
		}
		out[i] = r
	}
	return out
}
