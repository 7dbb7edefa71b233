package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeTestCSV(t *testing.T, rows [][]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "articles.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		t.Fatal(err)
	}
	w.Flush()
	return path
}

func TestCleanKeepsFirstOccurrence(t *testing.T) {
	path := writeTestCSV(t, [][]string{
		{"title", "text", "publish_date", "url"},
		{"first", "a", "d1", "https://a.example/1"},
		{"dup", "b", "d2", "https://a.example/1"},
		{"second", "c", "d3", "https://a.example/2"},
	})

	if err := clean(path); err != nil {
		t.Fatalf("clean() error: %v", err)
	}

	outPath := strings.TrimSuffix(path, ".csv") + "_dedup.csv"
	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("opening deduped CSV: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"title", "text", "publish_date", "url"},
		{"first", "a", "d1", "https://a.example/1"},
		{"second", "c", "d3", "https://a.example/2"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("deduped CSV = %v, want %v", rows, want)
	}
}

func TestReadRowsRejectsNarrowCSV(t *testing.T) {
	path := writeTestCSV(t, [][]string{
		{"title", "text"},
		{"a", "b"},
	})

	if _, _, err := readRows(path); err == nil {
		t.Error("readRows() should reject a CSV without a url column")
	}
}

func TestReadRowsMissingFile(t *testing.T) {
	if _, _, err := readRows(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Error("readRows() on a missing file should fail")
	}
}
