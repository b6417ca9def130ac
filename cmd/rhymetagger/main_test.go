package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/versotym/rhymetagger"
	"github.com/versotym/rhymetagger/internal/corpusio"
	"github.com/versotym/rhymetagger/internal/store"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestImportSeveralFiles(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "rt.db")
	t.Setenv("RHYMETAGGER_DB", db)
	cfgFile := filepath.Join(dir, "missing.yaml")

	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")
	writeFile(t, a, `{"poems": [{"title": "Night", "stanzas": [[
		{"text": "the light", "ipa": "ðə lˈaɪt"}, {"text": "the night", "ipa": "ðə nˈaɪt"}]]}]}`)
	writeFile(t, b, `{"poems": [{"stanzas": [[
		{"text": "the day", "ipa": "ðə dˈeɪ"}, {"text": "the way", "ipa": "ðə wˈeɪ"}]]}]}`)

	run(t, "import", "-c", cfgFile, a, b)

	st, err := store.NewSQLiteStore(db)
	require.NoError(t, err)
	poems, err := st.ListPoems(context.Background())
	require.NoError(t, err)
	require.NoError(t, st.Close())
	require.Len(t, poems, 2)
	assert.True(t, strings.HasSuffix(poems[0].ID, "/a-1"), poems[0].ID)
	assert.Equal(t, "Night", poems[0].Title)
	assert.True(t, strings.HasSuffix(poems[1].ID, "/b-1"), poems[1].ID)

	out := run(t, "export", "-c", cfgFile)
	doc, err := corpusio.Decode(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, doc.Poems, 2)
	assert.Equal(t, "light", doc.Poems[0].Stanzas[0][0].Text)
	assert.Equal(t, "way", doc.Poems[1].Stanzas[0][1].Text)
}

func TestIDPrefix(t *testing.T) {
	assert.Equal(t, "corpora/en", idPrefix("corpora/./en.json"))
	assert.Equal(t, "poems", idPrefix("poems"))
}

func TestAlignResults(t *testing.T) {
	c := &rhymetagger.Corpus{Poems: []rhymetagger.Poem{{ID: "a"}, {ID: "b"}, {ID: "c"}}}
	stored := []rhymetagger.PoemResult{
		{PoemID: "c", Tagged: rhymetagger.RelationFromEdges([][2]int{{0, 1}})},
		{PoemID: "a", Tagged: rhymetagger.RelationFromEdges([][2]int{{1, 2}})},
	}
	got := alignResults(c, stored)
	require.Len(t, got, 3)
	assert.Equal(t, [][2]int{{1, 2}}, got[0].Tagged.Edges())
	assert.Equal(t, "b", got[1].PoemID)
	assert.Zero(t, got[1].Tagged.Len())
	assert.Equal(t, [][2]int{{0, 1}}, got[2].Tagged.Edges())
}
