package veracity

import (
	"math"
	"strings"

	"gopkg.in/neurosnap/sentences.v1"
	"gopkg.in/neurosnap/sentences.v1/english"
)

// Polarity thresholds for the three-way label.
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// SentimentConfig configures sentiment scoring
type SentimentConfig struct {
	NegationWindow int // Tokens to check for negation
	ModifierWindow int // Tokens to check for intensifiers and diminishers
}

// DefaultSentimentConfig returns standard configuration
func DefaultSentimentConfig() SentimentConfig {
	return SentimentConfig{
		NegationWindow: 3,
		ModifierWindow: 2,
	}
}

// SentimentScorer computes an advisory polarity score from raw text. It is
// immutable after construction and safe for concurrent use.
type SentimentScorer struct {
	lexicon   *SentimentLexicon
	segmenter *sentences.DefaultSentenceTokenizer
	tokenizer *Tokenizer
	config    SentimentConfig
}

// NewSentimentScorer creates a scorer backed by the built-in English lexicon.
func NewSentimentScorer() (*SentimentScorer, error) {
	return NewSentimentScorerWithExternal("")
}

// NewSentimentScorerWithExternal creates a scorer whose lexicon is extended by
// the JSON lexicon at path.
func NewSentimentScorerWithExternal(path string) (*SentimentScorer, error) {
	lexicon, err := LoadSentimentLexicon(path)
	if err != nil {
		return nil, err
	}
	segmenter, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, err
	}
	return &SentimentScorer{
		lexicon:   lexicon,
		segmenter: segmenter,
		tokenizer: NewTokenizer(),
		config:    DefaultSentimentConfig(),
	}, nil
}

// NeutralSentiment is the result used whenever scoring cannot run.
func NeutralSentiment() Sentiment {
	return Sentiment{Score: 0.0, Label: Neutral}
}

// LabelFor maps a polarity score to its label.
func LabelFor(score float64) SentimentLabel {
	switch {
	case score >= PositiveThreshold:
		return Positive
	case score <= NegativeThreshold:
		return Negative
	default:
		return Neutral
	}
}

// ScoreValue scores v when it is a string. Anything else, a nil scorer, or a
// failure while scoring yields NeutralSentiment.
func (s *SentimentScorer) ScoreValue(v interface{}) Sentiment {
	text, ok := v.(string)
	if !ok {
		return NeutralSentiment()
	}
	return s.Score(text)
}

// Score returns the polarity of text. It never fails.
func (s *SentimentScorer) Score(text string) (result Sentiment) {
	if s == nil || s.lexicon == nil {
		return NeutralSentiment()
	}
	defer func() {
		if r := recover(); r != nil {
			result = NeutralSentiment()
		}
	}()

	var tally polarityTally
	for _, sent := range s.segment(text) {
		s.scoreSentence(s.tokenizer.Tokenize(sent), &tally)
	}
	score := tally.polarity()
	return Sentiment{Score: score, Label: LabelFor(score)}
}

func (s *SentimentScorer) segment(text string) []string {
	if s.segmenter == nil {
		return []string{text}
	}
	var out []string
	for _, sent := range s.segmenter.Tokenize(text) {
		if strings.TrimSpace(sent.Text) != "" {
			out = append(out, sent.Text)
		}
	}
	return out
}

// polarityTally accumulates adjusted valences across sentences.
type polarityTally struct {
	pos, neg float64
	count    int
}

func (t *polarityTally) add(v float64) {
	if v == 0 {
		return
	}
	if v > 0 {
		t.pos += v
	} else {
		t.neg += math.Abs(v)
	}
	t.count++
}

func (t *polarityTally) polarity() float64 {
	if t.count == 0 {
		return 0
	}
	pos := t.pos / float64(t.count)
	neg := t.neg / float64(t.count)

	switch {
	case pos == 0 && neg == 0:
		return 0
	case neg == 0:
		return math.Min(1.0, pos*1.5)
	case pos == 0:
		return math.Max(-1.0, -neg*1.5)
	default:
		return (pos - neg) / (pos + neg)
	}
}

// scoreSentence adds the adjusted valence of every sentiment word in tokens.
func (s *SentimentScorer) scoreSentence(tokens []Token, tally *polarityTally) {
	for i, token := range tokens {
		if !isContentWord(token) {
			continue
		}
		base := s.lexicon.GetSentiment(token.Text)
		if base == 0 {
			continue
		}

		adjusted := s.applyModifiers(base, tokens, i)
		if s.checkNegation(tokens, i) {
			// Negation reverses but weakens
			adjusted = -adjusted * 0.5
		}
		tally.add(adjusted)
	}
}

// checkNegation reports whether a negation precedes position within the
// window with no clause boundary in between.
func (s *SentimentScorer) checkNegation(tokens []Token, position int) bool {
	start := maxInt(0, position-s.config.NegationWindow)

	for i := start; i < position; i++ {
		lower := strings.ToLower(tokens[i].Text)
		if !s.lexicon.IsNegation(lower) && !strings.HasSuffix(lower, "n't") {
			continue
		}
		for j := i + 1; j < position; j++ {
			if isClauseBoundary(tokens[j]) {
				return false
			}
		}
		return true
	}
	return false
}

// applyModifiers adjusts sentiment based on intensifiers/diminishers
func (s *SentimentScorer) applyModifiers(base float64, tokens []Token, position int) float64 {
	if position == 0 || base == 0 {
		return base
	}

	start := maxInt(0, position-s.config.ModifierWindow)
	for i := start; i < position; i++ {
		if modifier := s.lexicon.GetModifierStrength(tokens[i].Text); modifier != 0 {
			// Diminishers carry a negative strength.
			return base * (1 + modifier)
		}
	}
	return base
}

// isContentWord checks if a token can carry sentiment
func isContentWord(token Token) bool {
	if len(token.Text) <= 1 {
		return false
	}
	for _, r := range token.Text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

var clauseBoundaries = map[string]bool{
	",": true, ";": true, ":": true, ".": true, "!": true, "?": true,
	"but": true, "however": true, "although": true,
}

// isClauseBoundary checks if a token represents a clause boundary
func isClauseBoundary(token Token) bool {
	return clauseBoundaries[strings.ToLower(token.Text)]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
