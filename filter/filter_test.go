package filter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func loadTestTable(t *testing.T, table map[string][]string) {
	t.Helper()
	data, err := json.Marshal(table)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "badwords.json")
	if err = os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	if err = Load(path); err != nil {
		t.Fatal(err)
	}
}

func TestClean(t *testing.T) {
	loadTestTable(t, map[string][]string{
		"en": {"secret", "badword", "x"},
		"de": {"geheim"},
	})
	tests := []struct {
		name string
		text string
		lang string
		want string
	}{
		{
			name: "simple match",
			text: "a secret plan",
			lang: "en",
			want: "a s*****t plan",
		},
		{
			name: "case insensitive matching keeps original case in the mask",
			text: "SECRET Secret sEcReT",
			lang: "en",
			want: "S*****T S*****t s*****T",
		},
		{
			name: "punctuation ignored during matching",
			text: "that's a secret! really, a se.cret?",
			lang: "en",
			want: "that's a s*****t really, a s*****t",
		},
		{
			name: "single-char entry",
			text: "x marks the spot",
			lang: "en",
			want: "x*****x marks the spot",
		},
		{
			name: "whitespace preserved",
			text: "secret\t\tsecret\nclean",
			lang: "en",
			want: "s*****t\t\ts*****t\nclean",
		},
		{
			name: "language selects the blocklist",
			text: "geheim secret",
			lang: "de",
			want: "g*****m secret",
		},
		{
			name: "unknown language passes through",
			text: "secret",
			lang: "fr",
			want: "secret",
		},
		{
			name: "no partial matches",
			text: "secretive secrets",
			lang: "en",
			want: "secretive secrets",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.text, tt.lang); got != tt.want {
				t.Errorf("Clean(%q, %q) = %q, want %q", tt.text, tt.lang, got, tt.want)
			}
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	loadTestTable(t, map[string][]string{"en": {"secret", "badword"}})
	text := "a secret badword, mixed with clean text."
	once := Clean(text, "en")
	twice := Clean(once, "en")
	if once != twice {
		t.Errorf("Clean is not idempotent: %q != %q", once, twice)
	}
}

func TestIsTextual(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"text/plain", true},
		{"text/plain; charset=utf-8", true},
		{"application/json", true},
		{"application/xml", true},
		{"text/xml", true},
		{"application/rtf", true},
		{"application/msword", true},
		{"Application/JSON", true},
		{"application/pdf", false},
		{"application/octet-stream", false},
		{"image/png", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsTextual(tt.contentType); got != tt.want {
			t.Errorf("IsTextual(%q) = %v, want %v", tt.contentType, got, tt.want)
		}
	}
}
