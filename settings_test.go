package rhymetagger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func TestDefaultSettingsValid(t *testing.T) {
	assert.NoError(t, DefaultSettings().Validate())
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
		target error
	}{
		{"language", func(s *Settings) { s.Language = "not a language" }, ErrInvalidLanguage},
		{"alphabet", func(s *Settings) { s.Alphabet = "arpabet" }, ErrUnknownAlphabet},
		{"collocation window", func(s *Settings) { s.CollocationWindow = 0 }, ErrInvalidWindow},
		{"window", func(s *Settings) { s.Window = -1 }, ErrInvalidWindow},
		{"score kind", func(s *Settings) { s.ScoreKind = "chi2" }, ErrUnknownScoreKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(&s)
			assert.ErrorIs(t, s.Validate(), tt.target)
		})
	}

	for name, modify := range map[string]func(*Settings){
		"min probability": func(s *Settings) { s.MinProbability = 1.5 },
		"ngram prob":      func(s *Settings) { s.MinNgramProbability = -0.1 },
		"match length":    func(s *Settings) { s.MatchLength = 0 },
		"ngram length":    func(s *Settings) { s.NgramLength = 0 },
		"iterations":      func(s *Settings) { s.MaxIterations = 0 },
		"orthography":     func(s *Settings) { s.OrthographyFrom = -1 },
		"workers":         func(s *Settings) { s.Workers = -2 },
		"min frequency":   func(s *Settings) { s.MinFrequency = -1 },
	} {
		s := DefaultSettings()
		modify(&s)
		assert.Error(t, s.Validate(), name)
	}
}

func TestSettingsValidateReportsAll(t *testing.T) {
	s := DefaultSettings()
	s.Window = 0
	s.ScoreKind = "chi2"
	err := s.Validate()
	assert.ErrorIs(t, err, ErrInvalidWindow)
	assert.ErrorIs(t, err, ErrUnknownScoreKind)
}

func TestSettingsYAML(t *testing.T) {
	src := "language: cs\nalphabet: sampa\nwindow: 6\nscore_kind: dice\nstanza_limit: true\n"
	s := DefaultSettings()
	assert.NoError(t, yaml.Unmarshal([]byte(src), &s))
	assert.Equal(t, 6, s.Window)
	assert.Equal(t, ScoreDice, s.ScoreKind)
	assert.True(t, s.StanzaLimit)
	// unset keys keep their defaults
	assert.Equal(t, 4, s.CollocationWindow)
	assert.NoError(t, s.Validate())
	assert.Equal(t, "cs", s.LanguageTag().String())
}

func TestOrthographySchedule(t *testing.T) {
	s := DefaultSettings()
	assert.False(t, s.orthography(1))
	assert.True(t, s.orthography(2))
	assert.True(t, s.orthography(9))
	s.OrthographyFrom = 0
	assert.False(t, s.orthography(9))

	s.Language = ""
	assert.Equal(t, "und", s.LanguageTag().String())
}

func TestSettingsYAMLScoreKindSpelling(t *testing.T) {
	s := DefaultSettings()
	assert.NoError(t, yaml.Unmarshal([]byte("score_kind: MI\n"), &s))
	assert.Equal(t, ScoreMI, s.ScoreKind)

	assert.ErrorIs(t, yaml.Unmarshal([]byte("score_kind: chi2\n"), &s), ErrUnknownScoreKind)
}
