package veracity

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

var (
	// ErrAlreadyFitted is returned when Fit is called on a fitted Vectorizer.
	ErrAlreadyFitted = errors.New("vectorizer is already fitted")
	// ErrEmptyVocabulary means the fit corpus held no usable terms, e.g. only
	// stop words.
	ErrEmptyVocabulary = errors.New("empty vocabulary; the documents may only contain stop words")
	// ErrNotFitted is returned when a model component is used before fitting.
	ErrNotFitted = errors.New("model component is not fitted")
)

// wordRE picks word runs of two or more characters out of a token.
var wordRE = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// VectorizerConfig fixes the feature space. It is persisted with the fitted
// vocabulary and must not change after Fit.
type VectorizerConfig struct {
	MaxFeatures int      // Keep at most this many terms
	NGramMin    int      // Smallest n-gram length
	NGramMax    int      // Largest n-gram length
	StopWords   []string // Lower-case words dropped before n-grams are built
}

// DefaultVectorizerConfig returns unigrams and bigrams over the 5000 most
// frequent terms with English stop words removed.
func DefaultVectorizerConfig() VectorizerConfig {
	return VectorizerConfig{
		MaxFeatures: 5000,
		NGramMin:    1,
		NGramMax:    2,
		StopWords:   EnglishStopWords(),
	}
}

func (c VectorizerConfig) validate() error {
	if c.MaxFeatures <= 0 {
		return fmt.Errorf("max features must be positive, got %d", c.MaxFeatures)
	}
	if c.NGramMin < 1 || c.NGramMax < c.NGramMin {
		return fmt.Errorf("invalid n-gram range (%d, %d)", c.NGramMin, c.NGramMax)
	}
	return nil
}

// Vectorizer maps text to L2-normalized TF-IDF vectors over a vocabulary that
// is learned once by Fit and frozen afterwards. A fitted Vectorizer is
// read-only and safe for concurrent use.
type Vectorizer struct {
	config     VectorizerConfig
	tokenizer  *Tokenizer
	stop       map[string]bool
	vocabulary map[string]int
	terms      []string
	idf        []float64
}

// NewVectorizer creates an unfitted Vectorizer.
func NewVectorizer(config VectorizerConfig) (*Vectorizer, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	stop := make(map[string]bool, len(config.StopWords))
	for _, w := range config.StopWords {
		stop[strings.ToLower(w)] = true
	}
	config.StopWords = append([]string(nil), config.StopWords...)
	return &Vectorizer{
		config:    config,
		tokenizer: NewTokenizer(),
		stop:      stop,
	}, nil
}

// Config returns the feature-space configuration.
func (v *Vectorizer) Config() VectorizerConfig {
	c := v.config
	c.StopWords = append([]string(nil), v.config.StopWords...)
	return c
}

// Fitted reports whether the vocabulary has been learned.
func (v *Vectorizer) Fitted() bool {
	return v.vocabulary != nil
}

// Dim returns the number of feature dimensions.
func (v *Vectorizer) Dim() int {
	return len(v.terms)
}

// Terms returns the vocabulary in index order.
func (v *Vectorizer) Terms() []string {
	return append([]string(nil), v.terms...)
}

// IDF returns the inverse document frequency of each term in index order.
func (v *Vectorizer) IDF() []float64 {
	return append([]float64(nil), v.idf...)
}

// Analyze returns the n-gram terms of text in order of appearance.
func (v *Vectorizer) Analyze(text string) []string {
	var words []string
	for _, tok := range v.tokenizer.Tokenize(text) {
		for _, w := range wordRE.FindAllString(strings.ToLower(tok.Text), -1) {
			if !v.stop[w] {
				words = append(words, w)
			}
		}
	}

	var terms []string
	for n := v.config.NGramMin; n <= v.config.NGramMax; n++ {
		for i := 0; i+n <= len(words); i++ {
			terms = append(terms, strings.Join(words[i:i+n], " "))
		}
	}
	return terms
}

// Fit learns the vocabulary and IDF weights from the training texts. It may
// be called exactly once.
func (v *Vectorizer) Fit(texts []string) error {
	if v.Fitted() {
		return ErrAlreadyFitted
	}

	type termStat struct {
		term      string
		count     int
		firstSeen int
	}

	stats := make(map[string]*termStat)
	docTerms := make([][]string, len(texts))
	for i, text := range texts {
		terms := v.Analyze(text)
		docTerms[i] = terms
		for _, term := range terms {
			s, ok := stats[term]
			if !ok {
				s = &termStat{term: term, firstSeen: len(stats)}
				stats[term] = s
			}
			s.count++
		}
	}
	if len(stats) == 0 {
		return ErrEmptyVocabulary
	}

	// Most frequent first; ties keep first-seen order.
	ranked := make([]*termStat, 0, len(stats))
	for _, s := range stats {
		ranked = append(ranked, s)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].firstSeen < ranked[j].firstSeen
	})
	if len(ranked) > v.config.MaxFeatures {
		ranked = ranked[:v.config.MaxFeatures]
	}

	terms := make([]string, len(ranked))
	for i, s := range ranked {
		terms[i] = s.term
	}
	sort.Strings(terms)

	vocabulary := make(map[string]int, len(terms))
	for i, term := range terms {
		vocabulary[term] = i
	}

	df := make([]int, len(terms))
	for _, doc := range docTerms {
		seen := make(map[int]bool)
		for _, term := range doc {
			if idx, ok := vocabulary[term]; ok && !seen[idx] {
				seen[idx] = true
				df[idx]++
			}
		}
	}

	n := float64(len(texts))
	idf := make([]float64, len(terms))
	for i, d := range df {
		// Smoothed: as if one extra document held every term.
		idf[i] = math.Log((1+n)/(1+float64(d))) + 1
	}

	v.terms = terms
	v.idf = idf
	v.vocabulary = vocabulary
	return nil
}

// Transform converts text into a feature vector. Terms outside the frozen
// vocabulary carry no weight; an empty text yields the zero vector.
func (v *Vectorizer) Transform(text string) FeatureVector {
	fv, _ := v.transform(text)
	return fv
}

// TransformAll converts each text into a feature vector.
func (v *Vectorizer) TransformAll(texts []string) []FeatureVector {
	out := make([]FeatureVector, len(texts))
	for i, text := range texts {
		out[i] = v.Transform(text)
	}
	return out
}

// Coverage reports how many of the n-gram terms in text are known to the
// vocabulary and how many were ignored.
func (v *Vectorizer) Coverage(text string) (known, unknown int) {
	_, unknown = v.transform(text)
	return len(v.Analyze(text)) - unknown, unknown
}

func (v *Vectorizer) transform(text string) (FeatureVector, int) {
	fv := FeatureVector{Dim: len(v.terms)}

	counts := make(map[int]float64)
	unknown := 0
	for _, term := range v.Analyze(text) {
		if idx, ok := v.vocabulary[term]; ok {
			counts[idx]++
		} else {
			unknown++
		}
	}
	if len(counts) == 0 {
		return fv, unknown
	}

	fv.Indices = make([]int, 0, len(counts))
	for idx := range counts {
		fv.Indices = append(fv.Indices, idx)
	}
	sort.Ints(fv.Indices)

	fv.Values = make([]float64, len(fv.Indices))
	var norm float64
	for i, idx := range fv.Indices {
		w := counts[idx] * v.idf[idx]
		fv.Values[i] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	for i := range fv.Values {
		fv.Values[i] /= norm
	}
	return fv, unknown
}

// vectorizerFromState rebuilds a fitted Vectorizer from persisted state.
func vectorizerFromState(config VectorizerConfig, terms []string, idf []float64) (*Vectorizer, error) {
	v, err := NewVectorizer(config)
	if err != nil {
		return nil, err
	}
	vocabulary := make(map[string]int, len(terms))
	for i, term := range terms {
		if _, dup := vocabulary[term]; dup {
			return nil, fmt.Errorf("duplicate vocabulary term %q", term)
		}
		vocabulary[term] = i
	}
	v.terms = append([]string(nil), terms...)
	v.idf = append([]float64(nil), idf...)
	v.vocabulary = vocabulary
	return v, nil
}
