package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const answerSystemPrompt = "Use the following pieces of context to answer the question at the end. " +
	"If you don't know the answer, just say that you don't know, don't try to make up an answer."

// Output tokens assumed when estimating the query cost before the call.
const assumedOutputTokens = 200

// chatCompleter is the completion capability; *openai.Client satisfies it.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// RAGResult is the outcome of one query-stage run.
type RAGResult struct {
	Answer          string
	EmbeddingCost   float64
	QueryCost       float64
	TotalCost       float64
	DocumentsLoaded int
}

// ragPipeline embeds the chunked documents, retrieves the most similar ones
// for the fixed prompt and asks the completion model for an answer.
type ragPipeline struct {
	chat     chatCompleter
	embedder Embedder
	settings *Settings
	question string
}

// runQuery executes the query stage against a chunked-documents file.
func runQuery(config *Config, chunksPath, apiKey string) error {
	settings := config.Settings

	if chunksPath == "" {
		latest, err := latestChunkedDocs(settings.DataDirectory)
		if err != nil {
			return err
		}
		chunksPath = latest
	}

	log.Printf("Loading documents from %s", chunksPath)
	docs, err := loadDocuments(chunksPath)
	if err != nil {
		return fmt.Errorf("loading chunked documents (run load first): %w", err)
	}
	if len(docs) == 0 {
		return fmt.Errorf("no documents found in %s: run load first", chunksPath)
	}
	log.Printf("Loaded %d total documents", len(docs))

	client := openai.NewClient(apiKey)
	pipeline := &ragPipeline{
		chat:     client,
		embedder: newOpenAIEmbedder(client, settings.Query.EmbeddingModel),
		settings: settings,
		question: config.GetQueryPrompt(),
	}

	result, err := pipeline.Answer(context.Background(), docs)
	if err != nil {
		return err
	}

	log.Printf("Actual query cost: $%.4f", result.QueryCost)
	log.Printf("Total estimated cost: $%.4f", result.TotalCost)
	fmt.Printf("\nRAG Prediction:\n%s\n", result.Answer)
	return nil
}

// Answer runs retrieval and generation over the given chunked documents.
func (p *ragPipeline) Answer(ctx context.Context, docs []Document) (*RAGResult, error) {
	contents := make([]string, len(docs))
	for i, doc := range docs {
		contents[i] = doc.Content
	}

	embeddingTokens := countTokens(strings.Join(contents, " "), p.settings.Query.EmbeddingModel)
	embeddingCost := estimateEmbeddingCost(embeddingTokens)
	log.Printf("Estimated embedding cost: $%.4f", embeddingCost)

	log.Printf("→ Embedding and building vector store...")
	vectors, err := p.embedder.Embed(ctx, contents)
	if err != nil {
		return nil, fmt.Errorf("embedding documents: %w", err)
	}

	store := &vectorStore{}
	if err := store.Add(docs, vectors); err != nil {
		return nil, err
	}

	queryVectors, err := p.embedder.Embed(ctx, []string{p.question})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	hits := store.Search(queryVectors[0], p.settings.Query.TopK)

	prompt := buildAnswerPrompt(hits, p.question)
	inputTokens := countTokens(prompt, p.settings.Query.Model)
	log.Printf("Estimated query cost: $%.4f",
		estimateCost(inputTokens, assumedOutputTokens, p.settings.Query.Model))

	log.Printf("→ Querying LLM...")
	resp, err := p.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.settings.Query.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: answerSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in completion response")
	}

	answer := resp.Choices[0].Message.Content
	outputTokens := countTokens(answer, p.settings.Query.Model)
	queryCost := estimateCost(inputTokens, outputTokens, p.settings.Query.Model)

	return &RAGResult{
		Answer:          answer,
		EmbeddingCost:   embeddingCost,
		QueryCost:       queryCost,
		TotalCost:       embeddingCost + queryCost,
		DocumentsLoaded: len(docs),
	}, nil
}

// buildAnswerPrompt stuffs the retrieved chunks above the question.
func buildAnswerPrompt(hits []scoredDocument, question string) string {
	var b strings.Builder
	b.WriteString("Context:\n\n")
	for _, hit := range hits {
		b.WriteString(hit.Document.Content)
		b.WriteString("\n\n---\n\n")
	}
	b.WriteString("Question:\n")
	b.WriteString(question)
	return b.String()
}

// latestChunkedDocs finds the most recently modified chunked-documents file.
func latestChunkedDocs(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*_chunked_docs.json"))
	if err != nil {
		return "", fmt.Errorf("globbing for chunked documents: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no chunked documents found in %s: run load first", dir)
	}
	return newestFile(matches)
}
