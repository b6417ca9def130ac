// Package store provides SQLite-backed persistence for corpora, trained
// models and tagging results.
// Uses ncruces/go-sqlite3/driver which provides a database/sql interface.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/versotym/rhymetagger"
)

// ErrNoModel is returned when no model matches the request.
var ErrNoModel = errors.New("no stored model")

// SQLiteStore is the SQLite-backed store. Safe for concurrent use.
type SQLiteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS authors (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
);

-- seq keeps import order
CREATE TABLE IF NOT EXISTS poems (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    author_id INTEGER,
    period TEXT NOT NULL DEFAULT '',
    language TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_poems_language ON poems(language);

CREATE TABLE IF NOT EXISTS lines (
    poem_id TEXT NOT NULL,
    idx INTEGER NOT NULL,
    stanza INTEGER NOT NULL,
    token TEXT NOT NULL,
    transcription TEXT NOT NULL DEFAULT '',
    scheme TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (poem_id, idx)
);

CREATE TABLE IF NOT EXISTS models (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at INTEGER NOT NULL,
    state TEXT NOT NULL,
    iterations INTEGER NOT NULL,
    settings TEXT NOT NULL,
    alphabet TEXT NOT NULL
);

-- kind is "vowel", "consonant" or "ngram"; pos is 0 for n-grams
CREATE TABLE IF NOT EXISTS probabilities (
    model_id INTEGER NOT NULL,
    kind TEXT NOT NULL,
    pos INTEGER NOT NULL,
    first TEXT NOT NULL,
    second TEXT NOT NULL,
    p REAL NOT NULL,
    PRIMARY KEY (model_id, kind, pos, first, second)
);

CREATE TABLE IF NOT EXISTS tags (
    model_id INTEGER NOT NULL,
    poem_id TEXT NOT NULL,
    line_a INTEGER NOT NULL,
    line_b INTEGER NOT NULL,
    PRIMARY KEY (model_id, poem_id, line_a, line_b)
);
`

// NewSQLiteStore opens dsn and creates the schema.
// Use ":memory:" for an in-memory store or a file path for persistent storage.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// every connection to ":memory:" is a separate database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// =============================================================================
// Corpus
// =============================================================================

// ImportCorpus stores every poem of c under language, replacing poems
// with the same id. Poems without an id are stored as new poems with the
// id "poem-<seq>", which is written back into c.
func (s *SQLiteStore) ImportCorpus(ctx context.Context, language string, c *rhymetagger.Corpus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inTx(ctx, func(tx *sql.Tx) error {
		authors := make(map[string]int64)
		for i := range c.Poems {
			p := &c.Poems[i]
			var authorID sql.NullInt64
			if p.Author != "" {
				id, ok := authors[p.Author]
				if !ok {
					var err error
					if id, err = upsertAuthor(ctx, tx, p.Author); err != nil {
						return err
					}
					authors[p.Author] = id
				}
				authorID = sql.NullInt64{Int64: id, Valid: true}
			}

			if p.ID != "" {
				if _, err := tx.ExecContext(ctx, `DELETE FROM lines WHERE poem_id = ?`, p.ID); err != nil {
					return fmt.Errorf("poem %s: %w", p.ID, err)
				}
				if _, err := tx.ExecContext(ctx, `DELETE FROM poems WHERE id = ?`, p.ID); err != nil {
					return fmt.Errorf("poem %s: %w", p.ID, err)
				}
			}
			res, err := tx.ExecContext(ctx, `
				INSERT INTO poems (id, author_id, period, language, title) VALUES (?, ?, ?, ?, ?)
			`, p.ID, authorID, p.Period, language, p.Title)
			if err != nil {
				return fmt.Errorf("poem %s: %w", p.ID, err)
			}
			if p.ID == "" {
				seq, err := res.LastInsertId()
				if err != nil {
					return fmt.Errorf("poem id: %w", err)
				}
				p.ID = fmt.Sprintf("poem-%d", seq)
				if _, err := tx.ExecContext(ctx, `UPDATE poems SET id = ? WHERE seq = ?`, p.ID, seq); err != nil {
					return fmt.Errorf("poem %s: %w", p.ID, err)
				}
			}

			for i, l := range p.Lines {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO lines (poem_id, idx, stanza, token, transcription, scheme)
					VALUES (?, ?, ?, ?, ?, ?)
				`, p.ID, i, l.Stanza, l.Token, joinSymbols(l.Transcription), string(l.Scheme)); err != nil {
					return fmt.Errorf("poem %s line %d: %w", p.ID, i, err)
				}
			}
		}
		return nil
	})
}

func upsertAuthor(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	if _, err := tx.ExecContext(ctx, `INSERT INTO authors (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name); err != nil {
		return 0, fmt.Errorf("author %s: %w", name, err)
	}
	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM authors WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("author %s: %w", name, err)
	}
	return id, nil
}

// Symbols never contain whitespace, so a space-joined form is lossless.
func joinSymbols(tr rhymetagger.Transcription) string {
	parts := make([]string, len(tr))
	for i, sym := range tr {
		parts[i] = string(sym)
	}
	return strings.Join(parts, " ")
}

func splitSymbols(s string) rhymetagger.Transcription {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	tr := make(rhymetagger.Transcription, len(fields))
	for i, f := range fields {
		tr[i] = rhymetagger.Symbol(f)
	}
	return tr
}

// LoadCorpus returns the poems of language in import order; an empty
// language loads everything.
func (s *SQLiteStore) LoadCorpus(ctx context.Context, language string) (*rhymetagger.Corpus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.period, COALESCE(a.name, ''), p.title,
			l.idx, l.stanza, l.token, l.transcription, l.scheme
		FROM poems p
		LEFT JOIN authors a ON a.id = p.author_id
		LEFT JOIN lines l ON l.poem_id = p.id
		WHERE ? = '' OR p.language = ?
		ORDER BY p.seq, l.idx
	`, language, language)
	if err != nil {
		return nil, fmt.Errorf("query corpus: %w", err)
	}
	defer rows.Close()

	c := &rhymetagger.Corpus{}
	for rows.Next() {
		var (
			id, period, author, title string
			idx, stanza               sql.NullInt64
			token, tr, scheme         sql.NullString
		)
		if err := rows.Scan(&id, &period, &author, &title, &idx, &stanza, &token, &tr, &scheme); err != nil {
			return nil, fmt.Errorf("scan corpus: %w", err)
		}
		if n := len(c.Poems); n == 0 || c.Poems[n-1].ID != id {
			c.Poems = append(c.Poems, rhymetagger.Poem{ID: id, Period: period, Author: author, Title: title})
		}
		if !idx.Valid {
			continue
		}
		p := &c.Poems[len(c.Poems)-1]
		p.Lines = append(p.Lines, rhymetagger.Line{
			Token:         token.String,
			Transcription: splitSymbols(tr.String),
			Stanza:        int(stanza.Int64),
			Scheme:        rhymetagger.SchemeLabel(scheme.String),
			Index:         int(idx.Int64),
		})
	}
	return c, rows.Err()
}

// ListPoems returns the catalogue of stored poems in import order.
func (s *SQLiteStore) ListPoems(ctx context.Context) ([]PoemMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, COALESCE(a.name, ''), p.period, p.language, p.title,
			(SELECT COUNT(*) FROM lines l WHERE l.poem_id = p.id)
		FROM poems p
		LEFT JOIN authors a ON a.id = p.author_id
		ORDER BY p.seq
	`)
	if err != nil {
		return nil, fmt.Errorf("query poems: %w", err)
	}
	defer rows.Close()

	var out []PoemMeta
	for rows.Next() {
		var m PoemMeta
		if err := rows.Scan(&m.ID, &m.Author, &m.Period, &m.Language, &m.Title, &m.Lines); err != nil {
			return nil, fmt.Errorf("scan poem: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// =============================================================================
// Models
// =============================================================================

// SaveModel stores m and returns its id.
func (s *SQLiteStore) SaveModel(ctx context.Context, m *rhymetagger.Model, state rhymetagger.State, iterations int) (int64, error) {
	settings, err := json.Marshal(m.Settings)
	if err != nil {
		return 0, fmt.Errorf("marshal settings: %w", err)
	}
	alphabet, err := json.Marshal(m.Alphabet.Spec())
	if err != nil {
		return 0, fmt.Errorf("marshal alphabet: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var id int64
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO models (created_at, state, iterations, settings, alphabet)
			VALUES (?, ?, ?, ?, ?)
		`, time.Now().Unix(), state.String(), iterations, string(settings), string(alphabet))
		if err != nil {
			return fmt.Errorf("insert model: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO probabilities (model_id, kind, pos, first, second, p) VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, e := range m.Probabilities.ClusterEntries() {
			k := e.Key
			if _, err := stmt.ExecContext(ctx, id, k.Kind.String(), k.Pos, string(k.First), string(k.Second), e.Probability); err != nil {
				return fmt.Errorf("insert probability: %w", err)
			}
		}
		for _, e := range m.Probabilities.NgramEntries() {
			if _, err := stmt.ExecContext(ctx, id, ngramKind, 0, e.Key.First, e.Key.Second, e.Probability); err != nil {
				return fmt.Errorf("insert probability: %w", err)
			}
		}
		return nil
	})
	return id, err
}

// LatestModelID returns the id of the most recently saved model.
func (s *SQLiteStore) LatestModelID(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM models ORDER BY id DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoModel
	}
	return id, err
}

// ListModels describes every stored model, newest first.
func (s *SQLiteStore) ListModels(ctx context.Context) ([]ModelInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, state, iterations, settings FROM models ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query models: %w", err)
	}
	defer rows.Close()

	var out []ModelInfo
	for rows.Next() {
		var (
			info     ModelInfo
			settings string
		)
		if err := rows.Scan(&info.ID, &info.CreatedAt, &info.State, &info.Iterations, &settings); err != nil {
			return nil, fmt.Errorf("scan model: %w", err)
		}
		if err := json.Unmarshal([]byte(settings), &info.Settings); err != nil {
			return nil, fmt.Errorf("model %d settings: %w", info.ID, err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// LoadModel reads model id back.
func (s *SQLiteStore) LoadModel(ctx context.Context, id int64) (*rhymetagger.Model, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var settingsJSON, alphabetJSON string
	err := s.db.QueryRowContext(ctx, `SELECT settings, alphabet FROM models WHERE id = ?`, id).
		Scan(&settingsJSON, &alphabetJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("model %d: %w", id, ErrNoModel)
	}
	if err != nil {
		return nil, fmt.Errorf("model %d: %w", id, err)
	}

	m := &rhymetagger.Model{Probabilities: rhymetagger.NewProbabilityModel()}
	if err := json.Unmarshal([]byte(settingsJSON), &m.Settings); err != nil {
		return nil, fmt.Errorf("model %d settings: %w", id, err)
	}
	var spec rhymetagger.AlphabetSpec
	if err := json.Unmarshal([]byte(alphabetJSON), &spec); err != nil {
		return nil, fmt.Errorf("model %d alphabet: %w", id, err)
	}
	m.Alphabet = rhymetagger.NewAlphabet(spec)
	if m.Settings.IgnoreVowelLength {
		m.Alphabet = m.Alphabet.WithoutLength()
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, pos, first, second, p FROM probabilities WHERE model_id = ?
	`, id)
	if err != nil {
		return nil, fmt.Errorf("model %d probabilities: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			kind, first, second string
			pos                 int
			p                   float64
		)
		if err := rows.Scan(&kind, &pos, &first, &second, &p); err != nil {
			return nil, fmt.Errorf("scan probability: %w", err)
		}
		if kind == ngramKind {
			m.Probabilities.SetNgram(rhymetagger.NewNgramPairKey(first, second), p)
			continue
		}
		ck, err := rhymetagger.ParseClusterKind(kind)
		if err != nil {
			return nil, fmt.Errorf("model %d: %w", id, err)
		}
		f := rhymetagger.Feature{Kind: ck, Pos: pos}
		m.Probabilities.SetCluster(rhymetagger.NewClusterPairKey(f, rhymetagger.Cluster(first), rhymetagger.Cluster(second)), p)
	}
	return m, rows.Err()
}

// =============================================================================
// Tagging results
// =============================================================================

// SaveResults stores the tagged links of every result under modelID,
// replacing earlier results of the same poems.
func (s *SQLiteStore) SaveResults(ctx context.Context, modelID int64, results []rhymetagger.PoemResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, r := range results {
			if _, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE model_id = ? AND poem_id = ?`, modelID, r.PoemID); err != nil {
				return fmt.Errorf("poem %s: %w", r.PoemID, err)
			}
			for _, e := range r.Tagged.Edges() {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO tags (model_id, poem_id, line_a, line_b) VALUES (?, ?, ?, ?)
				`, modelID, r.PoemID, e[0], e[1]); err != nil {
					return fmt.Errorf("poem %s: %w", r.PoemID, err)
				}
			}
		}
		return nil
	})
}

// LoadResults returns the tagged links stored under modelID, one result
// per poem with at least one link, in poem import order.
func (s *SQLiteStore) LoadResults(ctx context.Context, modelID int64) ([]rhymetagger.PoemResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT t.poem_id, t.line_a, t.line_b
		FROM tags t
		LEFT JOIN poems p ON p.id = t.poem_id
		WHERE t.model_id = ?
		ORDER BY COALESCE(p.seq, 0), t.poem_id, t.line_a, t.line_b
	`, modelID)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	var out []rhymetagger.PoemResult
	for rows.Next() {
		var (
			poemID string
			a, b   int
		)
		if err := rows.Scan(&poemID, &a, &b); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		if n := len(out); n == 0 || out[n-1].PoemID != poemID {
			out = append(out, rhymetagger.PoemResult{
				PoemID: poemID,
				Tagged: rhymetagger.NewRelation(),
				Gold:   rhymetagger.NewRelation(),
			})
		}
		out[len(out)-1].Tagged.Add(a, b)
	}
	return out, rows.Err()
}
