package normalizer

import (
	"bufio"
	"embed"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

//go:embed stopwords/*.txt
var stopWordFiles embed.FS

// languages maps a configured language name to its casing rules
var languages = map[string]language.Tag{
	"portuguese": language.Portuguese,
	"english":    language.English,
}

// StopWords is a read-only set of stop-words for one language
type StopWords map[string]struct{}

// Contains reports whether word is a stop-word
func (s StopWords) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// LoadStopWords parses the embedded list for lang
func LoadStopWords(lang string) (StopWords, error) {
	tag, ok := languages[lang]
	if !ok {
		return nil, fmt.Errorf("unsupported normalizer language: %s", lang)
	}

	f, err := stopWordFiles.Open("stopwords/" + lang + ".txt")
	if err != nil {
		return nil, fmt.Errorf("failed to open stop-word list for %s: %w", lang, err)
	}
	defer f.Close()

	caser := cases.Lower(tag)
	words := make(StopWords)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words[caser.String(norm.NFC.String(line))] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stop-word list for %s: %w", lang, err)
	}

	return words, nil
}
