package rhymetagger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// LoadAlphabet reads an alphabet definition file.
//
// Format: one "directive:value" per line, "!" starts a comment line.
//
//	name:ipa-custom
//	stress:ˈ
//	peaks:iyeøɛœaɑɔou
//	length:ː
//	ignore:ˌ
//	tie:͡
//	syllabic:̩
//
// Unknown directives are skipped so that files can carry extra metadata.
func LoadAlphabet(path string) (*Alphabet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open alphabet: %w", err)
	}
	defer f.Close()

	a, err := ReadAlphabet(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return a, nil
}

// ReadAlphabet parses an alphabet definition from r. See LoadAlphabet.
func ReadAlphabet(r io.Reader) (*Alphabet, error) {
	var spec AlphabetSpec

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "!") {
			continue
		}
		idx := strings.Index(line, ":")
		if idx < 0 {
			return nil, fmt.Errorf("line %d: missing ':'", lineNo)
		}
		// values are not trimmed: several directives are whitespace-sensitive
		// combining characters
		key, val := strings.TrimSpace(line[:idx]), line[idx+1:]

		switch key {
		case "name":
			spec.Name = strings.TrimSpace(val)
		case "stress":
			spec.Stress = Symbol(strings.TrimSpace(val))
		case "peaks":
			spec.Peaks = strings.TrimSpace(val)
		case "length":
			spec.LengthMarks = strings.TrimSpace(val)
		case "ignore":
			spec.Ignore = strings.TrimSpace(val)
		case "tie", "syllabic":
			rn, err := singleRune(val)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", lineNo, key, err)
			}
			if key == "tie" {
				spec.Tie = rn
			} else {
				spec.Syllabic = rn
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if spec.Name == "" {
		return nil, fmt.Errorf("alphabet has no name")
	}
	if spec.Peaks == "" {
		return nil, fmt.Errorf("alphabet %q defines no peaks", spec.Name)
	}
	return NewAlphabet(spec), nil
}

func singleRune(s string) (rune, error) {
	s = strings.Trim(s, " \t")
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("want exactly one character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
