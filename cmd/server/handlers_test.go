package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/versotym/rhymetagger"
	"github.com/versotym/rhymetagger/internal/store"
)

func testModel() *rhymetagger.Model {
	s := rhymetagger.DefaultSettings()
	s.OrthographyFrom = 0
	return &rhymetagger.Model{
		Settings:      s,
		Alphabet:      rhymetagger.IPA,
		Probabilities: rhymetagger.NewProbabilityModel(),
	}
}

func newTestServer(t *testing.T, st *store.SQLiteStore) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(newRouter(loadedModel{id: 7, model: testModel()}, st, []string{"*"}, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func TestTagEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	body := `{"poems": [{"id": "q", "stanzas": [[
		{"text": "A candle's light", "ipa": "ə kˈændəlz lˈaɪt"},
		{"text": "the end of day", "ipa": "ðə ˈɛnd ɒv dˈeɪ"},
		{"text": "into the night", "ipa": "ˈɪntuː ðə nˈaɪt"},
		{"text": "along the way.", "ipa": "əlˈɒŋ ðə wˈeɪ"}
	]]}]}`
	resp, err := http.Post(srv.URL+"/api/tag", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got tagResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got.Results, 1)
	res := got.Results[0]
	assert.Equal(t, "q", res.ID)
	assert.Equal(t, [][]int{{0, 2}, {1, 3}}, res.Chains)
	assert.Equal(t, "way", res.Lines[3].Token)
}

func TestTagEndpointRejectsBadBody(t *testing.T) {
	srv := newTestServer(t, nil)
	for _, body := range []string{"", "{", `{"poems": []}`} {
		resp, err := http.Post(srv.URL+"/api/tag", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %q: status %d, want 400", body, resp.StatusCode)
		}
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, nil)
	resp, err := http.Get(srv.URL + "/api/tag")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestModelAndAlphabets(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/api/model")
	require.NoError(t, err)
	var m modelResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	resp.Body.Close()
	assert.Equal(t, int64(7), m.ID)
	assert.Equal(t, "ipa", m.Alphabet)
	assert.Equal(t, 4, m.Settings.Window)

	resp, err = http.Get(srv.URL + "/api/alphabets")
	require.NoError(t, err)
	var a alphabetsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&a))
	resp.Body.Close()
	assert.Equal(t, []string{"ipa", "sampa"}, a.Alphabets)

	resp, err = http.Get(srv.URL + "/api/models")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "no store, no model list")
}

func TestModelsFromStore(t *testing.T) {
	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer st.Close()
	_, err = st.SaveModel(context.Background(), testModel(), rhymetagger.Exhausted, 20)
	require.NoError(t, err)

	srv := newTestServer(t, st)
	resp, err := http.Get(srv.URL + "/api/models")
	require.NoError(t, err)
	defer resp.Body.Close()
	var got modelsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got.Models, 1)
	assert.Equal(t, "exhausted", got.Models[0].State)
}

func TestPoemsFromStore(t *testing.T) {
	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer st.Close()
	c := &rhymetagger.Corpus{Poems: []rhymetagger.Poem{{
		ID: "night", Title: "To Night", Author: "Shelley", Period: "1821",
		Lines: []rhymetagger.Line{{Token: "light"}, {Token: "night", Index: 1}},
	}}}
	require.NoError(t, st.ImportCorpus(context.Background(), "en", c))

	srv := newTestServer(t, st)
	resp, err := http.Get(srv.URL + "/api/poems")
	require.NoError(t, err)
	defer resp.Body.Close()
	var got poemsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got.Poems, 1)
	assert.Equal(t, store.PoemMeta{
		ID: "night", Author: "Shelley", Period: "1821", Language: "en", Title: "To Night", Lines: 2,
	}, got.Poems[0])
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, nil)
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/alphabets", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.org")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
