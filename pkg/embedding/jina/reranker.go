package jina

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// JinaReranker calls the Jina rerank API for cross-encoder style second-pass scoring.
type JinaReranker struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

type rerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n"`
}

type rerankResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewJinaReranker(apiKey string, model string) *JinaReranker {
	if model == "" {
		model = "jina-reranker-v2-base-multilingual"
	}
	return &JinaReranker{
		apiKey:  apiKey,
		baseURL: "https://api.jina.ai/v1/rerank",
		model:   model,
		client:  &http.Client{},
	}
}

// Rerank returns one relevance score per passage, in passage order.
// A response covering only some passages is treated as a failure: partial
// reranker output would make result ordering non-deterministic.
func (r *JinaReranker) Rerank(ctx context.Context, query string, passages []string) ([]float64, error) {
	reqBody := rerankRequest{
		Model:     r.model,
		Query:     query,
		Documents: passages,
		TopN:      len(passages),
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", r.apiKey))

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jina rerank error (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	var rr rerankResponse
	if err := json.Unmarshal(bodyBytes, &rr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if rr.Error != nil {
		return nil, fmt.Errorf("jina rerank error: %s", rr.Error.Message)
	}
	if len(rr.Results) != len(passages) {
		return nil, fmt.Errorf("jina rerank returned %d scores for %d passages", len(rr.Results), len(passages))
	}

	scores := make([]float64, len(passages))
	for _, res := range rr.Results {
		if res.Index < 0 || res.Index >= len(scores) {
			return nil, fmt.Errorf("jina rerank returned out-of-range index %d", res.Index)
		}
		scores[res.Index] = res.RelevanceScore
	}
	return scores, nil
}
