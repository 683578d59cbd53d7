package veracity

import (
	"reflect"
	"regexp"
	"testing"
)

func tokenTexts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		text     string
		expected []string
		desc     string
	}{
		{"Hello, world!", []string{"Hello", ",", "world", "!"}, "Trailing punctuation"},
		{"I don't know", []string{"I", "do", "n't", "know"}, "Negated contraction"},
		{"they'll see", []string{"they", "'ll", "see"}, "Future contraction"},
		{"it\u2019s fine", []string{"it", "'s", "fine"}, "Curly apostrophe"},
		{"costs $100", []string{"costs", "$", "100"}, "Currency prefix"},
		{"(Well)", []string{"(", "Well", ")"}, "Parentheses"},
		{"Loved it :)", []string{"Loved", "it", ":)"}, "Emoticon kept whole"},
		{"made in the U.S.", []string{"made", "in", "the", "U.S."}, "Abbreviation kept whole"},
		{"   ", nil, "Whitespace only"},
		{"", nil, "Empty text"},
	}

	tok := NewTokenizer()
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got := tokenTexts(tok.Tokenize(tt.text))
			if len(got) == 0 && len(tt.expected) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.text, got, tt.expected)
			}
		})
	}
}

func TestTokenOffsets(t *testing.T) {
	tok := NewTokenizer()
	text := "Hi there, friend"
	tokens := tok.Tokenize(text)

	want := []Token{
		{Text: "Hi", Start: 0, End: 2},
		{Text: "there", Start: 3, End: 8},
		{Text: ",", Start: 8, End: 9},
		{Text: "friend", Start: 10, End: 16},
	}
	if !reflect.DeepEqual(tokens, want) {
		t.Fatalf("got %+v, want %+v", tokens, want)
	}
	for _, tk := range tokens {
		if text[tk.Start:tk.End] != tk.Text {
			t.Errorf("offsets of %q point at %q", tk.Text, text[tk.Start:tk.End])
		}
	}
}

func TestTokenizerOptions(t *testing.T) {
	tok := NewTokenizer(
		UsingEmoticons([]string{"<3"}),
		UsingSuffixes([]string{"!"}),
		UsingSpecialRE(regexp.MustCompile(`^#\w+$`)),
	)
	got := tokenTexts(tok.Tokenize("great <3 #blessed wow!"))
	want := []string{"great", "<3", "#blessed", "wow", "!"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}

	// ':)' is no longer an emoticon and ')' is no longer a suffix.
	got = tokenTexts(tok.Tokenize("ok :)"))
	want = []string{"ok", ":)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTokenizeUnicode(t *testing.T) {
	tests := []struct {
		text     string
		expected []string
		desc     string
	}{
		// Lower-casing these runes changes their byte length.
		{"ȺȺȺȺ'll love it", []string{"ȺȺȺȺ", "'ll", "love", "it"}, "Lowercase grows"},
		{"GROẞ'S shop", []string{"GROẞ", "'S", "shop"}, "Lowercase shrinks"},
		{"DON'T", []string{"DO", "N'T"}, "Upper-case contraction"},
		{"café naïve!", []string{"café", "naïve", "!"}, "Accented words"},
		{"été's (über)", []string{"été", "'s", "(", "über", ")"}, "Accents around affixes"},
		{"bad\xffbyte it's", []string{"bad\xffbyte", "it", "'s"}, "Invalid UTF-8"},
		{"\xff'll", []string{"\xff", "'ll"}, "Invalid byte before contraction"},
	}

	tok := NewTokenizer()
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			tokens := tok.Tokenize(tt.text)
			if got := tokenTexts(tokens); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.text, got, tt.expected)
			}
			for _, tk := range tokens {
				if tt.text[tk.Start:tk.End] != tk.Text {
					t.Errorf("offsets of %q point at %q", tk.Text, tt.text[tk.Start:tk.End])
				}
			}
		})
	}
}
