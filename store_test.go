package main

import (
	"math"
	"testing"
)

func testDoc(title string) Document {
	return Document{Content: title, Metadata: DocumentMetadata{Title: title}}
}

func TestVectorStoreSearchOrdering(t *testing.T) {
	store := &vectorStore{}
	docs := []Document{testDoc("exact"), testDoc("orthogonal"), testDoc("close")}
	vectors := [][]float32{
		{1, 0},
		{0, 1},
		{0.7, 0.7},
	}
	if err := store.Add(docs, vectors); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	hits := store.Search([]float32{1, 0}, 3)

	if len(hits) != 3 {
		t.Fatalf("Search() returned %d hits, want 3", len(hits))
	}
	wantOrder := []string{"exact", "close", "orthogonal"}
	for i, want := range wantOrder {
		if hits[i].Document.Metadata.Title != want {
			t.Errorf("hit %d = %q, want %q", i, hits[i].Document.Metadata.Title, want)
		}
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Score > hits[i-1].Score {
			t.Errorf("scores not descending: %v then %v", hits[i-1].Score, hits[i].Score)
		}
	}
}

func TestVectorStoreSearchTopK(t *testing.T) {
	store := &vectorStore{}
	docs := []Document{testDoc("a"), testDoc("b"), testDoc("c")}
	vectors := [][]float32{{1, 0}, {0.9, 0.1}, {0, 1}}
	if err := store.Add(docs, vectors); err != nil {
		t.Fatal(err)
	}

	if hits := store.Search([]float32{1, 0}, 2); len(hits) != 2 {
		t.Errorf("Search(topK=2) returned %d hits, want 2", len(hits))
	}
	// topK larger than the store is clamped.
	if hits := store.Search([]float32{1, 0}, 10); len(hits) != 3 {
		t.Errorf("Search(topK=10) returned %d hits, want 3", len(hits))
	}
}

func TestVectorStoreAddMismatch(t *testing.T) {
	store := &vectorStore{}
	err := store.Add([]Document{testDoc("a")}, [][]float32{{1}, {2}})
	if err == nil {
		t.Error("Add() with mismatched counts should fail")
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"length mismatch", []float32{1}, []float32{1, 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("cosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}
