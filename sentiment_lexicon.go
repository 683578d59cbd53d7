package veracity

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// SentimentLexicon holds word valences, modifiers and negations. It is built
// once and only read afterwards.
type SentimentLexicon struct {
	words     map[string]LexiconEntry
	modifiers map[string]float64
	negations map[string]bool
}

// LexiconEntry represents a word's sentiment information
type LexiconEntry struct {
	Word       string
	Sentiment  float64 // -1 to 1
	Confidence float64 // 0 to 1
	Domain     string
}

// ExternalLexicon represents the JSON structure for external lexicon files.
// Only the "english" section is read.
type ExternalLexicon struct {
	Languages map[string]LanguageLexicon `json:"languages"`
}

// LanguageLexicon contains all word categories for a specific language
type LanguageLexicon struct {
	Words        []WordEntry     `json:"words,omitempty"`
	Modifiers    []ModifierEntry `json:"modifiers,omitempty"`
	Negations    []string        `json:"negations,omitempty"`
	Positive     []WordEntry     `json:"positive,omitempty"`
	Negative     []WordEntry     `json:"negative,omitempty"`
	Intensifiers []string        `json:"intensifiers,omitempty"`
	Diminishers  []string        `json:"diminishers,omitempty"`
}

// WordEntry represents a sentiment word in JSON format
type WordEntry struct {
	Word       string  `json:"word"`
	Sentiment  float64 `json:"sentiment"`
	Confidence float64 `json:"confidence"`
	Domain     string  `json:"domain,omitempty"`
}

// ModifierEntry represents a modifier word in JSON format
type ModifierEntry struct {
	Word   string  `json:"word"`
	Factor float64 `json:"factor"`
}

// NewSentimentLexicon returns the built-in English lexicon.
func NewSentimentLexicon() *SentimentLexicon {
	return &SentimentLexicon{
		words:     englishWords(),
		modifiers: englishModifiers(),
		negations: englishNegations(),
	}
}

// LoadSentimentLexicon returns the built-in lexicon merged with the external
// JSON lexicon at path. An empty path yields the built-in lexicon.
func LoadSentimentLexicon(path string) (*SentimentLexicon, error) {
	lexicon := NewSentimentLexicon()
	if path == "" {
		return lexicon, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading lexicon file: %w", err)
	}
	var external ExternalLexicon
	if err := json.Unmarshal(data, &external); err != nil {
		return nil, fmt.Errorf("error parsing lexicon JSON: %w", err)
	}
	if english, ok := external.Languages["english"]; ok {
		lexicon.merge(english)
	}
	return lexicon, nil
}

// merge folds external entries into the lexicon; external values win.
func (sl *SentimentLexicon) merge(data LanguageLexicon) {
	for _, group := range [][]WordEntry{data.Words, data.Positive, data.Negative} {
		for _, entry := range group {
			sl.words[strings.ToLower(entry.Word)] = LexiconEntry{
				Word:       entry.Word,
				Sentiment:  clamp(entry.Sentiment, -1, 1),
				Confidence: entry.Confidence,
				Domain:     entry.Domain,
			}
		}
	}
	for _, modifier := range data.Modifiers {
		sl.modifiers[strings.ToLower(modifier.Word)] = modifier.Factor
	}
	for _, intensifier := range data.Intensifiers {
		sl.modifiers[strings.ToLower(intensifier)] = 0.3
	}
	for _, diminisher := range data.Diminishers {
		sl.modifiers[strings.ToLower(diminisher)] = -0.3
	}
	for _, negation := range data.Negations {
		sl.negations[strings.ToLower(negation)] = true
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// GetSentiment returns sentiment score for a word
func (sl *SentimentLexicon) GetSentiment(word string) float64 {
	if entry, exists := sl.words[word]; exists {
		return entry.Sentiment
	}
	if entry, exists := sl.words[strings.ToLower(word)]; exists {
		return entry.Sentiment
	}
	return 0.0
}

// IsNegation checks if word is a negation
func (sl *SentimentLexicon) IsNegation(word string) bool {
	return sl.negations[word] || sl.negations[strings.ToLower(word)]
}

// GetModifierStrength returns modifier strength
func (sl *SentimentLexicon) GetModifierStrength(word string) float64 {
	if strength, exists := sl.modifiers[word]; exists {
		return strength
	}
	return sl.modifiers[strings.ToLower(word)]
}

// Size returns the number of words in the lexicon
func (sl *SentimentLexicon) Size() int {
	return len(sl.words)
}

// HasWord checks if a word exists in the lexicon
func (sl *SentimentLexicon) HasWord(word string) bool {
	_, exists := sl.words[strings.ToLower(word)]
	return exists
}

func englishWords() map[string]LexiconEntry {
	words := map[string]LexiconEntry{
		// Strong positive words
		"excellent":   {Sentiment: 0.9, Confidence: 0.95},
		"amazing":     {Sentiment: 0.85, Confidence: 0.95},
		"wonderful":   {Sentiment: 0.85, Confidence: 0.95},
		"fantastic":   {Sentiment: 0.85, Confidence: 0.95},
		"outstanding": {Sentiment: 0.9, Confidence: 0.95},
		"perfect":     {Sentiment: 0.95, Confidence: 0.95},
		"brilliant":   {Sentiment: 0.85, Confidence: 0.95},
		"superb":      {Sentiment: 0.85, Confidence: 0.95},
		"magnificent": {Sentiment: 0.9, Confidence: 0.95},
		"flawless":    {Sentiment: 0.9, Confidence: 0.9},

		// Moderate positive words
		"good":        {Sentiment: 0.6, Confidence: 0.9},
		"great":       {Sentiment: 0.75, Confidence: 0.9},
		"nice":        {Sentiment: 0.5, Confidence: 0.85},
		"love":        {Sentiment: 0.8, Confidence: 0.9},
		"loved":       {Sentiment: 0.8, Confidence: 0.9},
		"loves":       {Sentiment: 0.8, Confidence: 0.9},
		"happy":       {Sentiment: 0.7, Confidence: 0.9},
		"beautiful":   {Sentiment: 0.75, Confidence: 0.9},
		"enjoy":       {Sentiment: 0.65, Confidence: 0.9},
		"enjoyed":     {Sentiment: 0.65, Confidence: 0.9},
		"like":        {Sentiment: 0.5, Confidence: 0.85},
		"pleasant":    {Sentiment: 0.6, Confidence: 0.9},
		"positive":    {Sentiment: 0.6, Confidence: 0.9},
		"best":        {Sentiment: 0.85, Confidence: 0.95},
		"better":      {Sentiment: 0.5, Confidence: 0.85},
		"fun":         {Sentiment: 0.65, Confidence: 0.9},
		"interesting": {Sentiment: 0.5, Confidence: 0.85},
		"awesome":     {Sentiment: 0.8, Confidence: 0.9},
		"recommend":   {Sentiment: 0.6, Confidence: 0.85},
		"recommended": {Sentiment: 0.6, Confidence: 0.85},
		"comfortable": {Sentiment: 0.55, Confidence: 0.85},
		"sturdy":      {Sentiment: 0.5, Confidence: 0.8},
		"reliable":    {Sentiment: 0.6, Confidence: 0.85},
		"worth":       {Sentiment: 0.45, Confidence: 0.75},
		"pleased":     {Sentiment: 0.6, Confidence: 0.85},
		"satisfied":   {Sentiment: 0.55, Confidence: 0.85},
		"works":       {Sentiment: 0.3, Confidence: 0.6},
		"cute":        {Sentiment: 0.5, Confidence: 0.8},
		"thanks":      {Sentiment: 0.4, Confidence: 0.75},

		// Mild positive words
		"okay":         {Sentiment: 0.2, Confidence: 0.7},
		"fine":         {Sentiment: 0.3, Confidence: 0.75},
		"decent":       {Sentiment: 0.4, Confidence: 0.8},
		"satisfactory": {Sentiment: 0.4, Confidence: 0.85},

		// Strong negative words
		"terrible":   {Sentiment: -0.9, Confidence: 0.95},
		"awful":      {Sentiment: -0.85, Confidence: 0.95},
		"horrible":   {Sentiment: -0.85, Confidence: 0.95},
		"disgusting": {Sentiment: -0.9, Confidence: 0.95},
		"appalling":  {Sentiment: -0.9, Confidence: 0.95},
		"dreadful":   {Sentiment: -0.85, Confidence: 0.95},
		"atrocious":  {Sentiment: -0.9, Confidence: 0.95},
		"abysmal":    {Sentiment: -0.95, Confidence: 0.95},
		"useless":    {Sentiment: -0.8, Confidence: 0.9},
		"garbage":    {Sentiment: -0.8, Confidence: 0.9},
		"junk":       {Sentiment: -0.75, Confidence: 0.9},
		"scam":       {Sentiment: -0.85, Confidence: 0.9},

		// Moderate negative words
		"bad":           {Sentiment: -0.6, Confidence: 0.9},
		"hate":          {Sentiment: -0.8, Confidence: 0.9},
		"sad":           {Sentiment: -0.7, Confidence: 0.9},
		"ugly":          {Sentiment: -0.75, Confidence: 0.9},
		"disappointing": {Sentiment: -0.7, Confidence: 0.9},
		"disappointed":  {Sentiment: -0.7, Confidence: 0.9},
		"poor":          {Sentiment: -0.65, Confidence: 0.9},
		"wrong":         {Sentiment: -0.6, Confidence: 0.85},
		"worst":         {Sentiment: -0.85, Confidence: 0.95},
		"worse":         {Sentiment: -0.5, Confidence: 0.85},
		"dislike":       {Sentiment: -0.5, Confidence: 0.85},
		"negative":      {Sentiment: -0.6, Confidence: 0.9},
		"annoying":      {Sentiment: -0.65, Confidence: 0.9},
		"boring":        {Sentiment: -0.6, Confidence: 0.85},
		"fail":          {Sentiment: -0.7, Confidence: 0.9},
		"failed":        {Sentiment: -0.7, Confidence: 0.9},
		"failure":       {Sentiment: -0.75, Confidence: 0.9},
		"broken":        {Sentiment: -0.7, Confidence: 0.9},
		"broke":         {Sentiment: -0.6, Confidence: 0.85},
		"waste":         {Sentiment: -0.7, Confidence: 0.9},
		"defective":     {Sentiment: -0.75, Confidence: 0.9},
		"flimsy":        {Sentiment: -0.55, Confidence: 0.85},
		"refund":        {Sentiment: -0.4, Confidence: 0.7},
		"return":        {Sentiment: -0.2, Confidence: 0.5},
		"returned":      {Sentiment: -0.4, Confidence: 0.7},
		"unhappy":       {Sentiment: -0.7, Confidence: 0.9},
		"problem":       {Sentiment: -0.45, Confidence: 0.8},
		"problems":      {Sentiment: -0.45, Confidence: 0.8},

		// Context-dependent words
		"cheap":   {Sentiment: -0.3, Confidence: 0.6},
		"simple":  {Sentiment: 0.1, Confidence: 0.5},
		"fast":    {Sentiment: 0.3, Confidence: 0.6},
		"slow":    {Sentiment: -0.3, Confidence: 0.6},
		"hard":    {Sentiment: -0.2, Confidence: 0.5},
		"easy":    {Sentiment: 0.3, Confidence: 0.6},
		"complex": {Sentiment: -0.1, Confidence: 0.4},
		"new":     {Sentiment: 0.2, Confidence: 0.5},
		"old":     {Sentiment: -0.2, Confidence: 0.5},
	}
	for w, e := range words {
		e.Word = w
		words[w] = e
	}
	return words
}

func englishModifiers() map[string]float64 {
	return map[string]float64{
		// Intensifiers
		"very":         0.3,
		"extremely":    0.5,
		"absolutely":   0.5,
		"totally":      0.4,
		"really":       0.3,
		"so":           0.3,
		"quite":        0.2,
		"incredibly":   0.5,
		"remarkably":   0.4,
		"particularly": 0.3,
		"especially":   0.3,
		"super":        0.4,
		"utterly":      0.5,
		"completely":   0.4,
		"thoroughly":   0.4,
		"highly":       0.4,

		// Diminishers
		"slightly":   -0.3,
		"somewhat":   -0.3,
		"rather":     -0.2,
		"fairly":     -0.1,
		"marginally": -0.4,
		"barely":     -0.5,
		"hardly":     -0.5,
		"scarcely":   -0.5,
	}
}

func englishNegations() map[string]bool {
	negations := make(map[string]bool)
	for _, w := range []string{
		"not", "no", "never", "neither", "nor", "cannot", "can't", "won't",
		"don't", "doesn't", "didn't", "isn't", "aren't", "wasn't", "weren't",
		"hasn't", "haven't", "hadn't", "wouldn't", "shouldn't", "couldn't",
		"without", "nobody", "nothing", "nowhere", "none", "n't",
	} {
		negations[w] = true
	}
	return negations
}
