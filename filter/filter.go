// Package filter masks blocklisted words in plain-text document uploads.
// Blocklists are keyed by language code and loaded once at startup; the
// table is never mutated afterwards.
package filter

import (
	"encoding/json"
	"os"
	"strings"
	"unicode"
)

// Content types that are treated as text and run through Clean on upload.
var textualTypes = map[string]bool{
	"text/plain":         true,
	"application/json":   true,
	"application/xml":    true,
	"text/xml":           true,
	"application/rtf":    true,
	"application/msword": true,
}

var blocklists = map[string]map[string]bool{}

// IsTextual reports whether a Content-Type header value denotes filterable text
func IsTextual(contentType string) bool {
	mediaType := contentType
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	return textualTypes[strings.ToLower(strings.TrimSpace(mediaType))]
}

// Load reads the blocklist file, a JSON object mapping language codes to
// word lists: {"en": ["word", ...], ...}. Must be called before requests
// are served; an empty path leaves filtering disabled.
func Load(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var raw map[string][]string
	if err = json.Unmarshal(data, &raw); err != nil {
		return err
	}
	table := make(map[string]map[string]bool, len(raw))
	for lang, words := range raw {
		entries := make(map[string]bool, len(words))
		for _, word := range words {
			entries[strings.ToLower(word)] = true
		}
		table[lang] = entries
	}
	blocklists = table
	return nil
}

// stripped removes the punctuation characters ignored during matching
func stripped(token string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', '\'', '|', '!', '?':
			return -1
		}
		return r
	}, token)
}

func mask(word string) string {
	runes := []rune(word)
	return string(runes[0]) + "*****" + string(runes[len(runes)-1])
}

// Clean replaces every whitespace-delimited token that matches a blocklist
// entry for the given language with its masked form. Matching is
// case-insensitive and ignores . , ' | ! ? characters within the token.
// Whitespace is preserved as-is, so Clean is idempotent for a fixed table.
func Clean(text, lang string) string {
	words := blocklists[lang]
	if len(words) == 0 {
		return text
	}
	var out strings.Builder
	out.Grow(len(text))
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		token := text[start:end]
		plain := stripped(token)
		if plain != "" && words[strings.ToLower(plain)] {
			out.WriteString(mask(plain))
		} else {
			out.WriteString(token)
		}
		start = -1
	}
	for i, r := range text {
		if unicode.IsSpace(r) {
			flush(i)
			out.WriteRune(r)
		} else if start < 0 {
			start = i
		}
	}
	flush(len(text))
	return out.String()
}
