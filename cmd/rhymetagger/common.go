package main

import (
	"context"
	"encoding/json"
	"io"

	"go.uber.org/zap"

	"github.com/versotym/rhymetagger"
	"github.com/versotym/rhymetagger/internal/store"
)

func openStore() (*store.SQLiteStore, error) {
	logger.Debug("opening store", zap.String("path", cfg.Store.Path))
	return store.NewSQLiteStore(cfg.Store.Path)
}

// loadModel reads a model from a JSON file when path is set, otherwise
// model id from the store (0 for the latest).
func loadModel(ctx context.Context, st *store.SQLiteStore, path string, id int64) (*rhymetagger.Model, int64, error) {
	if path != "" {
		m, err := rhymetagger.LoadModel(path)
		return m, 0, err
	}
	if id == 0 {
		var err error
		if id, err = st.LatestModelID(ctx); err != nil {
			return nil, 0, err
		}
	}
	m, err := st.LoadModel(ctx, id)
	return m, id, err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
