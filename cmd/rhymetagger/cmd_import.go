package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/versotym/rhymetagger"
	"github.com/versotym/rhymetagger/internal/corpusio"
)

var importCmd = &cobra.Command{
	Use:   "import [corpus.json...]",
	Short: "Import JSON corpora into the store",
	Long: `Reads corpus files, extracts line-final words and their transcriptions
and stores the poems under the file's language (or the configured one).`,
	Args: cobra.MinimumNArgs(1),
	RunE: importCorpus,
}

func importCorpus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	alphabet, err := cfg.Alphabet()
	if err != nil {
		return err
	}
	if cfg.Tagger.IgnoreVowelLength {
		alphabet = alphabet.WithoutLength()
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	for _, path := range args {
		doc, err := corpusio.ReadFile(path)
		if err != nil {
			return err
		}
		lang := doc.Language
		if lang == "" {
			lang = cfg.Tagger.Language
		}
		tag, err := language.Parse(lang)
		if err != nil {
			return fmt.Errorf("%s: %w %q", path, rhymetagger.ErrInvalidLanguage, lang)
		}

		doc.AssignIDs(idPrefix(path))
		c := doc.Corpus(alphabet, rhymetagger.NewNormalizer(tag))
		if err := st.ImportCorpus(ctx, lang, c); err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}
		logger.Info("imported corpus",
			zap.String("file", path),
			zap.String("language", lang),
			zap.Int("poems", len(c.Poems)),
			zap.Int("lines", c.NumLines()))
	}
	return nil
}

// idPrefix names id-less poems after their file, without the extension.
func idPrefix(path string) string {
	path = filepath.ToSlash(filepath.Clean(path))
	return strings.TrimSuffix(path, filepath.Ext(path))
}
