package main

import (
	"github.com/pkoukk/tiktoken-go"
)

// countTokens counts tokens in text for cost estimation. When no tokenizer
// is available for the model, falls back to the rough 4-characters-per-token
// estimate.
func countTokens(text, model string) int {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}

// modelPricing is USD per 1k tokens.
type modelPricing struct {
	inputPer1K  float64
	outputPer1K float64
}

var chatPricing = map[string]modelPricing{
	"gpt-4o":        {inputPer1K: 0.005, outputPer1K: 0.015},
	"gpt-3.5-turbo": {inputPer1K: 0.0005, outputPer1K: 0.0015},
}

const embeddingCostPer1K = 0.0001

// estimateCost prices a chat call by token usage. Unknown models cost 0.
func estimateCost(inputTokens, outputTokens int, model string) float64 {
	pricing, ok := chatPricing[model]
	if !ok {
		return 0
	}
	inputCost := float64(inputTokens) / 1000 * pricing.inputPer1K
	outputCost := float64(outputTokens) / 1000 * pricing.outputPer1K
	return inputCost + outputCost
}

// estimateEmbeddingCost prices an embedding call by token count.
func estimateEmbeddingCost(tokens int) float64 {
	return float64(tokens) / 1000 * embeddingCostPer1K
}
