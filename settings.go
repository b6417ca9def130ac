package rhymetagger

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// ErrInvalidLanguage is returned for a language code that is not BCP 47.
var ErrInvalidLanguage = errors.New("invalid language code")

// Settings are the tunable parameters of training and tagging.
type Settings struct {
	// Language is a BCP 47 code used for case folding of rhyme words.
	Language string `yaml:"language" json:"language"`
	// Alphabet names the transcription alphabet ("ipa", "sampa").
	Alphabet string `yaml:"alphabet" json:"alphabet"`

	// CollocationWindow is how many lines back collocations are counted.
	CollocationWindow int `yaml:"collocation_window" json:"collocation_window"`
	// Window is how many lines back the tagger looks for rhymes.
	Window int `yaml:"window" json:"window"`

	ScoreKind    ScoreKind `yaml:"score_kind" json:"score_kind"`
	MinScore     float64   `yaml:"min_score" json:"min_score"`
	MinFrequency int       `yaml:"min_frequency" json:"min_frequency"`

	MinProbability      float64 `yaml:"min_probability" json:"min_probability"`
	MinNgramProbability float64 `yaml:"min_ngram_probability" json:"min_ngram_probability"`

	// MatchLength is the maximum number of cluster indices compared.
	MatchLength       int  `yaml:"match_length" json:"match_length"`
	StressTruncate    bool `yaml:"stress_truncate" json:"stress_truncate"`
	IgnoreVowelLength bool `yaml:"ignore_vowel_length" json:"ignore_vowel_length"`
	NgramLength       int  `yaml:"ngram_length" json:"ngram_length"`
	StanzaLimit       bool `yaml:"stanza_limit" json:"stanza_limit"`

	MaxIterations int `yaml:"max_iterations" json:"max_iterations"`
	// OrthographyFrom is the first iteration using the n-gram pass;
	// 0 never uses it.
	OrthographyFrom int `yaml:"orthography_from" json:"orthography_from"`
	// Workers bounds concurrent poem tagging; 0 means one per CPU.
	Workers int `yaml:"workers" json:"workers"`
}

// DefaultSettings returns the parameters of the published experiments.
func DefaultSettings() Settings {
	return Settings{
		Language:            "en",
		Alphabet:            "ipa",
		CollocationWindow:   4,
		Window:              4,
		ScoreKind:           ScoreT,
		MinScore:            3.078,
		MinFrequency:        4,
		MinProbability:      0.95,
		MinNgramProbability: 0.95,
		MatchLength:         2,
		StressTruncate:      true,
		NgramLength:         3,
		MaxIterations:       20,
		OrthographyFrom:     2,
	}
}

// Validate reports every configuration error at once.
func (s Settings) Validate() error {
	return s.validate(true)
}

// validate skips the alphabet lookup when a custom alphabet is supplied.
func (s Settings) validate(builtinAlphabet bool) error {
	var errs []error
	if s.Language != "" {
		if _, err := language.Parse(s.Language); err != nil {
			errs = append(errs, fmt.Errorf("%w %q: %v", ErrInvalidLanguage, s.Language, err))
		}
	}
	if builtinAlphabet {
		if _, err := AlphabetByName(s.Alphabet); err != nil {
			errs = append(errs, err)
		}
	}
	if s.CollocationWindow <= 0 {
		errs = append(errs, fmt.Errorf("collocation_window %d: %w", s.CollocationWindow, ErrInvalidWindow))
	}
	if s.Window <= 0 {
		errs = append(errs, fmt.Errorf("window %d: %w", s.Window, ErrInvalidWindow))
	}
	if _, err := ParseScoreKind(string(s.ScoreKind)); err != nil {
		errs = append(errs, err)
	}
	if s.MinFrequency < 0 {
		errs = append(errs, fmt.Errorf("min_frequency must not be negative, got %d", s.MinFrequency))
	}
	if s.MinProbability < 0 || s.MinProbability > 1 {
		errs = append(errs, fmt.Errorf("min_probability must be within [0,1], got %g", s.MinProbability))
	}
	if s.MinNgramProbability < 0 || s.MinNgramProbability > 1 {
		errs = append(errs, fmt.Errorf("min_ngram_probability must be within [0,1], got %g", s.MinNgramProbability))
	}
	if s.MatchLength <= 0 {
		errs = append(errs, fmt.Errorf("match_length must be positive, got %d", s.MatchLength))
	}
	if s.NgramLength <= 0 {
		errs = append(errs, fmt.Errorf("ngram_length must be positive, got %d", s.NgramLength))
	}
	if s.MaxIterations <= 0 {
		errs = append(errs, fmt.Errorf("max_iterations must be positive, got %d", s.MaxIterations))
	}
	if s.OrthographyFrom < 0 {
		errs = append(errs, fmt.Errorf("orthography_from must not be negative, got %d", s.OrthographyFrom))
	}
	if s.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", s.Workers))
	}
	return errors.Join(errs...)
}

// LanguageTag returns the parsed language, or language.Und when unset.
func (s Settings) LanguageTag() language.Tag {
	tag, err := language.Parse(s.Language)
	if err != nil {
		return language.Und
	}
	return tag
}

// orthography reports whether iteration it (1-based) runs the n-gram pass.
func (s Settings) orthography(it int) bool {
	return s.OrthographyFrom > 0 && it >= s.OrthographyFrom
}
