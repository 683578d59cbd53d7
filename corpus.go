package veracity

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrCorpusNotFound means the corpus file does not exist.
	ErrCorpusNotFound = errors.New("corpus file not found")
	// ErrMissingColumn means a required column is absent from the header.
	ErrMissingColumn = errors.New("required column not found")
	// ErrNoRecords means nothing usable is left to train on.
	ErrNoRecords = errors.New("no usable records")
)

// naLiterals are the cell values a dataframe reader treats as missing.
var naLiterals = map[string]bool{
	"": true, "#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true,
	"-1.#QNAN": true, "-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true,
	"<NA>": true, "N/A": true, "NA": true, "NULL": true, "NaN": true,
	"None": true, "n/a": true, "nan": true, "null": true,
}

func isMissing(v string) bool {
	return naLiterals[strings.TrimSpace(v)]
}

// A Record is one corpus row: the raw comment and its raw label cell.
type Record struct {
	Text     string
	RawLabel string
}

// Corpus is a labeled collection of comments read from a tabular file.
type Corpus struct {
	Source      string
	Columns     []string
	TextColumn  string
	LabelColumn string
	Records     []Record

	// missing marks records whose text cell was empty or NA.
	missing []bool
}

// LoadCorpus reads a CSV file, or a TSV file when the extension is .tsv.
func LoadCorpus(path, textColumn, labelColumn string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCorpusNotFound, path)
		}
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	comma := ','
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		comma = '\t'
	}
	c, err := ReadCorpus(f, comma, textColumn, labelColumn)
	if err != nil {
		return nil, err
	}
	c.Source = path
	return c, nil
}

// ReadCorpus parses delimited text with a header row.
func ReadCorpus(r io.Reader, comma rune, textColumn, labelColumn string) (*Corpus, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	// Short rows are padded with missing cells; long rows are rejected.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("malformed corpus: file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("malformed corpus: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	textIdx, labelIdx := -1, -1
	for i, name := range header {
		switch name {
		case textColumn:
			textIdx = i
		case labelColumn:
			labelIdx = i
		}
	}
	if textIdx < 0 {
		return nil, fmt.Errorf("%w: text column %q (available: %s)", ErrMissingColumn, textColumn, strings.Join(header, ", "))
	}
	if labelIdx < 0 {
		return nil, fmt.Errorf("%w: label column %q (available: %s)", ErrMissingColumn, labelColumn, strings.Join(header, ", "))
	}

	c := &Corpus{
		Columns:     header,
		TextColumn:  textColumn,
		LabelColumn: labelColumn,
	}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed corpus: %w", err)
		}
		if len(row) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("malformed corpus: line %d has %d fields, header has %d", line, len(row), len(header))
		}
		text := cell(row, textIdx)
		c.Records = append(c.Records, Record{Text: text, RawLabel: cell(row, labelIdx)})
		c.missing = append(c.missing, isMissing(text))
	}
	return c, nil
}

// cell returns row[i], or an empty (missing) value when the row is short.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// NewCorpus builds an in-memory corpus. Empty texts count as missing.
func NewCorpus(records []Record) *Corpus {
	c := &Corpus{
		Source:      "memory",
		Columns:     []string{"text", "label"},
		TextColumn:  "text",
		LabelColumn: "label",
		Records:     append([]Record(nil), records...),
	}
	for _, r := range records {
		c.missing = append(c.missing, isMissing(r.Text))
	}
	return c
}

// Len returns the number of records.
func (c *Corpus) Len() int {
	return len(c.Records)
}

// Clean drops records with missing text and returns how many were dropped.
func (c *Corpus) Clean() int {
	kept := c.Records[:0]
	for i, r := range c.Records {
		if i < len(c.missing) && c.missing[i] {
			continue
		}
		kept = append(kept, r)
	}
	dropped := len(c.Records) - len(kept)
	c.Records = kept
	c.missing = make([]bool, len(kept))
	return dropped
}

// Texts returns the comment texts in record order.
func (c *Corpus) Texts() []string {
	out := make([]string, len(c.Records))
	for i, r := range c.Records {
		out[i] = r.Text
	}
	return out
}

// RawLabels returns the label cells in record order.
func (c *Corpus) RawLabels() []string {
	out := make([]string, len(c.Records))
	for i, r := range c.Records {
		out[i] = r.RawLabel
	}
	return out
}
