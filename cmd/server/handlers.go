package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/versotym/rhymetagger"
	"github.com/versotym/rhymetagger/internal/corpusio"
	"github.com/versotym/rhymetagger/internal/store"
)

// maxBodyBytes bounds POST bodies.
const maxBodyBytes = 8 << 20

// ---- JSON response types ------------------------------------------------

type tagRequest struct {
	Poems []corpusio.PoemJSON `json:"poems"`
}

type tagResponse struct {
	Results []corpusio.TaggedPoem `json:"results"`
}

type modelResponse struct {
	ID       int64                `json:"id,omitempty"`
	Alphabet string               `json:"alphabet"`
	Settings rhymetagger.Settings `json:"settings"`
	Clusters int                  `json:"cluster_entries"`
	Ngrams   int                  `json:"ngram_entries"`
}

type modelsResponse struct {
	Models []store.ModelInfo `json:"models"`
}

type poemsResponse struct {
	Poems []store.PoemMeta `json:"poems"`
}

type alphabetsResponse struct {
	Alphabets []string `json:"alphabets"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ---- helpers ------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// loadedModel is the model served by the API.
type loadedModel struct {
	id    int64
	model *rhymetagger.Model
}

// ---- handlers -----------------------------------------------------------

func handleTag(lm loadedModel) http.HandlerFunc {
	tagger := lm.model.Tagger()
	norm := lm.model.Normalizer()
	return func(w http.ResponseWriter, r *http.Request) {
		var body tagRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err := dec.Decode(&body); err != nil || len(body.Poems) == 0 {
			writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty 'poems' array")
			return
		}

		out := make([]corpusio.TaggedPoem, 0, len(body.Poems))
		for i, pj := range body.Poems {
			p := corpusio.PoemFromJSON(pj, i, lm.model.Alphabet, norm)
			out = append(out, corpusio.Tagged(p, tagger.TagPoem(p)))
		}
		writeJSON(w, http.StatusOK, tagResponse{Results: out})
	}
}

func handleModel(lm loadedModel) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, modelResponse{
			ID:       lm.id,
			Alphabet: lm.model.Alphabet.Name(),
			Settings: lm.model.Settings,
			Clusters: len(lm.model.Probabilities.ClusterEntries()),
			Ngrams:   len(lm.model.Probabilities.NgramEntries()),
		})
	}
}

func handleModels(st *store.SQLiteStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		models, err := st.ListModels(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if models == nil {
			models = []store.ModelInfo{}
		}
		writeJSON(w, http.StatusOK, modelsResponse{Models: models})
	}
}

func handlePoems(st *store.SQLiteStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		poems, err := st.ListPoems(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if poems == nil {
			poems = []store.PoemMeta{}
		}
		writeJSON(w, http.StatusOK, poemsResponse{Poems: poems})
	}
}

func handleAlphabets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, alphabetsResponse{Alphabets: rhymetagger.AlphabetNames()})
	}
}

// requestLogger logs every request through zap.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}

// newRouter wires the API. st may be nil when the model comes from a file.
func newRouter(lm loadedModel, st *store.SQLiteStore, origins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/api", func(r chi.Router) {
		r.Post("/tag", handleTag(lm))
		r.Get("/model", handleModel(lm))
		r.Get("/alphabets", handleAlphabets())
		if st != nil {
			r.Get("/models", handleModels(st))
			r.Get("/poems", handlePoems(st))
		}
	})

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
	return c.Handler(r)
}
