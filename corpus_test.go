package veracity

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestReadCorpus(t *testing.T) {
	data := "\ufeffcategory,rating,label,text_\n" +
		"Home,5.0,CG,\"Love this, works great\"\n" +
		"Home,1.0,OR,Broke after a week\n" +
		"Toys,3.0,CG,\n" +
		"Toys,4.0,OR,NA\n"

	c, err := ReadCorpus(strings.NewReader(data), ',', "text_", "label")
	if err != nil {
		t.Fatalf("ReadCorpus: %v", err)
	}
	if c.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", c.Len())
	}
	if c.Columns[0] != "category" {
		t.Errorf("BOM not stripped: %q", c.Columns[0])
	}
	if c.Records[0].Text != "Love this, works great" || c.Records[0].RawLabel != "CG" {
		t.Errorf("unexpected first record %+v", c.Records[0])
	}

	if dropped := c.Clean(); dropped != 2 {
		t.Errorf("Clean() dropped %d, want 2", dropped)
	}
	if want := []string{"Love this, works great", "Broke after a week"}; !reflect.DeepEqual(c.Texts(), want) {
		t.Errorf("Texts() = %q, want %q", c.Texts(), want)
	}
	if want := []string{"CG", "OR"}; !reflect.DeepEqual(c.RawLabels(), want) {
		t.Errorf("RawLabels() = %q, want %q", c.RawLabels(), want)
	}
}

func TestReadCorpusShortRows(t *testing.T) {
	data := "category,label,text_\n" +
		"Home,CG,Works as described\n" +
		"Home,OR\n" +
		"Toys\n"

	c, err := ReadCorpus(strings.NewReader(data), ',', "text_", "label")
	if err != nil {
		t.Fatalf("short rows should be padded, got %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}
	if c.Records[1].Text != "" || c.Records[1].RawLabel != "OR" {
		t.Errorf("unexpected padded record %+v", c.Records[1])
	}
	if c.Records[2].RawLabel != "" {
		t.Errorf("missing label cell should be empty, got %q", c.Records[2].RawLabel)
	}
	if dropped := c.Clean(); dropped != 2 {
		t.Errorf("Clean() dropped %d, want 2", dropped)
	}
}

func TestReadCorpusErrors(t *testing.T) {
	tests := []struct {
		data    string
		wantErr error
		desc    string
	}{
		{"text,label\nhello,CG\n", ErrMissingColumn, "Missing text column"},
		{"text_,category\nhello,x\n", ErrMissingColumn, "Missing label column"},
		{"", nil, "Empty file"},
		{"text_,label\n\"unterminated,CG\n", nil, "Malformed quoting"},
		{"text_,label\nhello,CG,extra\n", nil, "Row wider than header"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			_, err := ReadCorpus(strings.NewReader(tt.data), ',', "text_", "label")
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	_, err := ReadCorpus(strings.NewReader("text,label\n"), ',', "text_", "label")
	if err == nil || !strings.Contains(err.Error(), "available: text, label") {
		t.Errorf("missing-column error should list available columns, got %v", err)
	}
}

func TestLoadCorpus(t *testing.T) {
	dir := t.TempDir()

	tsv := filepath.Join(dir, "reviews.tsv")
	if err := os.WriteFile(tsv, []byte("text_\tlabel\nnice, solid\tOR\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadCorpus(tsv, "text_", "label")
	if err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}
	if c.Source != tsv || c.Len() != 1 || c.Records[0].Text != "nice, solid" {
		t.Errorf("unexpected corpus %+v", c)
	}

	_, err = LoadCorpus(filepath.Join(dir, "missing.csv"), "text_", "label")
	if !errors.Is(err, ErrCorpusNotFound) {
		t.Errorf("expected ErrCorpusNotFound, got %v", err)
	}
}

func TestNewCorpus(t *testing.T) {
	c := NewCorpus([]Record{{Text: "ok", RawLabel: "OR"}, {Text: " ", RawLabel: "CG"}})
	if dropped := c.Clean(); dropped != 1 {
		t.Errorf("Clean() dropped %d, want 1", dropped)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}
