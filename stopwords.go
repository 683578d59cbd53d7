package veracity

import (
	"sort"
	"strings"
	"sync"

	"github.com/bbalet/stopwords"
)

var (
	englishStopWordsOnce sync.Once
	englishStopWords     []string
)

// EnglishStopWords returns the sorted English stop-word list used by default
// when fitting a Vectorizer. The list is resolved once per process; a fitted
// artifact carries its own copy, so inference never calls back into this.
func EnglishStopWords() []string {
	englishStopWordsOnce.Do(func() {
		englishStopWords = resolveStopWords(stopWordCandidates, "en")
	})
	out := make([]string, len(englishStopWords))
	copy(out, englishStopWords)
	return out
}

// resolveStopWords keeps the candidates that the stopwords library removes
// for the given ISO 639-1 language code. The library does not export its
// lists, so each word is checked individually.
func resolveStopWords(candidates []string, langCode string) []string {
	seen := make(map[string]bool, len(candidates))
	var words []string
	for _, word := range candidates {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" || seen[word] {
			continue
		}
		seen[word] = true
		if strings.TrimSpace(stopwords.CleanString(word, langCode, false)) == "" {
			words = append(words, word)
		}
	}
	sort.Strings(words)
	return words
}

// stopWordCandidates is a conventional English function-word list.
var stopWordCandidates = []string{
	"a", "about", "above", "across", "after", "afterwards", "again", "against",
	"all", "almost", "alone", "along", "already", "also", "although", "always",
	"am", "among", "amongst", "an", "and", "another", "any", "anyhow", "anyone",
	"anything", "anyway", "anywhere", "are", "around", "as", "at", "back", "be",
	"became", "because", "become", "becomes", "becoming", "been", "before",
	"beforehand", "behind", "being", "below", "beside", "besides", "between",
	"beyond", "both", "but", "by", "can", "cannot", "could", "did", "do", "does",
	"doing", "done", "down", "due", "during", "each", "either", "else",
	"elsewhere", "enough", "etc", "even", "ever", "every", "everyone",
	"everything", "everywhere", "except", "few", "for", "former", "formerly",
	"from", "further", "had", "has", "have", "having", "he", "hence", "her",
	"here", "hereafter", "hereby", "herein", "hereupon", "hers", "herself",
	"him", "himself", "his", "how", "however", "i", "ie", "if", "in", "indeed",
	"into", "is", "it", "its", "itself", "just", "latter", "latterly", "least",
	"less", "ltd", "many", "may", "me", "meanwhile", "might", "mine", "more",
	"moreover", "most", "mostly", "much", "must", "my", "myself", "namely",
	"neither", "nevertheless", "next", "no", "nobody", "none", "noone", "nor",
	"not", "nothing", "now", "nowhere", "of", "off", "often", "on", "once",
	"one", "only", "onto", "or", "other", "others", "otherwise", "our", "ours",
	"ourselves", "out", "over", "own", "per", "perhaps", "please", "rather",
	"re", "same", "seem", "seemed", "seeming", "seems", "several", "she",
	"should", "since", "so", "some", "somehow", "someone", "something",
	"sometime", "sometimes", "somewhere", "still", "such", "than", "that",
	"the", "their", "theirs", "them", "themselves", "then", "thence", "there",
	"thereafter", "thereby", "therefore", "therein", "thereupon", "these",
	"they", "this", "those", "though", "through", "throughout", "thru", "thus",
	"to", "together", "too", "toward", "towards", "under", "until", "up",
	"upon", "us", "very", "via", "was", "we", "well", "were", "what",
	"whatever", "when", "whence", "whenever", "where", "whereafter", "whereas",
	"whereby", "wherein", "whereupon", "wherever", "whether", "which", "while",
	"whither", "who", "whoever", "whole", "whom", "whose", "why", "will",
	"with", "within", "without", "would", "yet", "you", "your", "yours",
	"yourself", "yourselves",
}
