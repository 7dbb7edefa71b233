package main

import (
	"context"
	"fmt"
	"math"
	"sort"

	openai "github.com/sashabaranov/go-openai"
)

// Embedder turns texts into vectors. An interface so the query stage can be
// exercised without the network.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Provider-side request limits make one call per store impractical; batch
// sequentially instead.
const embedBatchSize = 100

type openAIEmbedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

func newOpenAIEmbedder(client *openai.Client, model string) *openAIEmbedder {
	return &openAIEmbedder{
		client: client,
		model:  openai.EmbeddingModel(model),
	}
}

func (e *openAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: texts[start:end],
			Model: e.model,
		})
		if err != nil {
			return nil, fmt.Errorf("embedding batch at offset %d: %w", start, err)
		}
		for _, item := range resp.Data {
			vectors = append(vectors, item.Embedding)
		}
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedded %d texts, got %d vectors", len(texts), len(vectors))
	}
	return vectors, nil
}

// scoredDocument pairs a document with its similarity to the query.
type scoredDocument struct {
	Document Document
	Score    float64
}

// vectorStore is an in-memory index over document vectors, searched by
// cosine similarity. Built fresh per query run; nothing is persisted.
type vectorStore struct {
	docs    []Document
	vectors [][]float32
}

func (s *vectorStore) Add(docs []Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("document/vector count mismatch: %d vs %d", len(docs), len(vectors))
	}
	s.docs = append(s.docs, docs...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

// Search returns the topK documents by descending cosine similarity.
func (s *vectorStore) Search(query []float32, topK int) []scoredDocument {
	results := make([]scoredDocument, 0, len(s.docs))
	for i := range s.docs {
		results = append(results, scoredDocument{
			Document: s.docs[i],
			Score:    cosineSimilarity(query, s.vectors[i]),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK]
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
