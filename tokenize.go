package veracity

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenizer splits text into words and punctuation. It holds no mutable state
// after construction and is safe for concurrent use.
type Tokenizer struct {
	specialRE    *regexp.Regexp
	sanitizer    *strings.Replacer
	contractions []string
	suffixes     []string
	prefixes     []string
	emoticons    map[string]bool
}

// TokenizerOption changes the behavior of a Tokenizer.
type TokenizerOption func(*Tokenizer)

// UsingSpecialRE sets the regex for unsplittable tokens.
func UsingSpecialRE(x *regexp.Regexp) TokenizerOption {
	return func(t *Tokenizer) {
		t.specialRE = x
	}
}

// UsingSanitizer sets the replacer applied before splitting.
func UsingSanitizer(x *strings.Replacer) TokenizerOption {
	return func(t *Tokenizer) {
		t.sanitizer = x
	}
}

// UsingSuffixes sets the trailing characters that are split off.
func UsingSuffixes(x []string) TokenizerOption {
	return func(t *Tokenizer) {
		t.suffixes = x
	}
}

// UsingPrefixes sets the leading characters that are split off.
func UsingPrefixes(x []string) TokenizerOption {
	return func(t *Tokenizer) {
		t.prefixes = x
	}
}

// UsingEmoticons sets the emoticons kept as single tokens.
func UsingEmoticons(x []string) TokenizerOption {
	return func(t *Tokenizer) {
		t.emoticons = make(map[string]bool, len(x))
		for _, e := range x {
			t.emoticons[e] = true
		}
	}
}

// UsingContractions sets the contraction endings that are split off.
func UsingContractions(x []string) TokenizerOption {
	return func(t *Tokenizer) {
		t.contractions = x
	}
}

// NewTokenizer returns a Tokenizer with English defaults.
func NewTokenizer(opts ...TokenizerOption) *Tokenizer {
	tok := &Tokenizer{
		specialRE:    internalRE,
		sanitizer:    sanitizer,
		contractions: contractions,
		suffixes:     suffixes,
		prefixes:     prefixes,
	}
	UsingEmoticons(emoticons)(tok)

	for _, applyOpt := range opts {
		applyOpt(tok)
	}
	return tok
}

// Tokenize splits text into tokens with byte offsets into the sanitized text.
func (t *Tokenizer) Tokenize(text string) []Token {
	var tokens []Token

	clean := t.sanitizer.Replace(text)
	start := -1
	for i, r := range clean {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, t.split(clean[start:i], start)...)
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, t.split(clean[start:], start)...)
	}
	return tokens
}

func (t *Tokenizer) isSpecial(token string) bool {
	return t.emoticons[token] || t.specialRE.MatchString(token)
}

// split breaks one whitespace-delimited span into tokens.
func (t *Tokenizer) split(token string, offset int) []Token {
	var toks, suffs []Token

	last := 0
	for token != "" && utf8.RuneCountInString(token) != last {
		if t.isSpecial(token) {
			// Emoticons and abbreviations are kept whole.
			toks = append(toks, newToken(token, offset))
			break
		}
		last = utf8.RuneCountInString(token)

		if n := prefixLen(token, t.prefixes); n > 0 {
			// $100 -> [$, 100]
			toks = append(toks, newToken(token[:n], offset))
			token = token[n:]
			offset += n
		} else if idx := indexAnyFold(token, t.contractions); idx > 0 {
			// don't -> [do, n't], they'll -> [they, 'll]
			toks = append(toks, newToken(token[:idx], offset))
			token = token[idx:]
			offset += idx
		} else if n := suffixLen(token, t.suffixes); n > 0 {
			// Well) -> [Well, )]
			end := len(token) - n
			suffs = append([]Token{newToken(token[end:], offset+end)}, suffs...)
			token = token[:end]
		} else {
			toks = append(toks, newToken(token, offset))
			break
		}
	}

	return append(toks, suffs...)
}

func newToken(s string, start int) Token {
	return Token{Text: s, Start: start, End: start + len(s)}
}

// prefixLen returns the byte length of the first prefix s starts with, or 0.
func prefixLen(s string, prefixes []string) int {
	for _, p := range prefixes {
		if len(s) > len(p) && strings.HasPrefix(s, p) {
			return len(p)
		}
	}
	return 0
}

func suffixLen(s string, suffixes []string) int {
	for _, suffix := range suffixes {
		if len(s) > len(suffix) && strings.HasSuffix(s, suffix) {
			return len(suffix)
		}
	}
	return 0
}

// indexAnyFold returns the byte offset in s of the first part found, matched
// case-insensitively, or -1. Offsets always fall on rune boundaries of s.
func indexAnyFold(s string, parts []string) int {
	for _, part := range parts {
		if len(s) <= len(part) {
			continue
		}
		for i := range s {
			if i+len(part) > len(s) {
				break
			}
			if strings.EqualFold(s[i:i+len(part)], part) {
				return i
			}
		}
	}
	return -1
}

var internalRE = regexp.MustCompile(`^(?:[A-Za-z]\.){2,}$|^[A-Z][a-z]{1,2}\.$`)
var sanitizer = strings.NewReplacer(
	"\u201c", `"`,
	"\u201d", `"`,
	"\u2018", "'",
	"\u2019", "'",
	"&rsquo;", "'")
var contractions = []string{"'ll", "'s", "'re", "'m", "n't", "'ve", "'d"}
var suffixes = []string{",", ")", `"`, "]", "!", ";", ".", "?", ":", "'"}
var prefixes = []string{"$", "(", `"`, "["}
var emoticons = []string{
	"(-8", "(-;", "(-_-)", "(._.)", "(:", "(=", "(o:", "-__-", "8-)", "8-D",
	"8D", ":(", ":((", ":(((", ":()", ":)", ":))", ":)))", ":-)", ":-))",
	":-(", ":-*", ":-/", ":-X", ":-]", ":-o", ":-p", ":-x", ":-|", ":-}",
	":0", ":3", ":P", ":D", ":]", ":o", ":o)", ";)", ";-)", "=(", "=)",
	"=D", "=|", "@_@", "O.o", "O_o", "XD", "XDD", "^_^", "^___^", "o_0",
	"o_O", "o_o", "v_v", "xD", "xDD", "<3", "</3",
}
