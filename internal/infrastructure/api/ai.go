package api

import (
	"context"
	"net/http"

	"github.com/mlobankov/resume-pilot/internal/core/domain"
)

// The AI endpoints are stateless request/response pairs: nothing here
// mutates shared entities, so every call is independently retryable by
// its caller.

func (c *Client) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatReply, error) {
	var out domain.ChatReply
	err := c.do(ctx, call{
		op:      "ai_chat",
		method:  http.MethodPost,
		path:    "/v1/ai/chat",
		payload: req,
		out:     &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RetrieveKnowledge(ctx context.Context, q domain.KnowledgeQuery) ([]domain.KnowledgeItem, error) {
	var out struct {
		Items   []domain.KnowledgeItem `json:"items"`
		Status  string                 `json:"status"`
		Message string                 `json:"message"`
	}
	err := c.do(ctx, call{
		op:      "ai_knowledge_retrieve",
		method:  http.MethodPost,
		path:    "/v1/ai/knowledge/retrieve",
		payload: q,
		out:     &out,
	})
	if err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) GenerateSuggestions(ctx context.Context, req domain.SuggestionRequest) (*domain.SuggestionSet, error) {
	var out domain.SuggestionSet
	err := c.do(ctx, call{
		op:      "ai_suggestions_generate",
		method:  http.MethodPost,
		path:    "/v1/ai/suggestions/generate",
		payload: req,
		out:     &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Health(ctx context.Context) (*domain.AIHealth, error) {
	var out domain.AIHealth
	err := c.do(ctx, call{
		op:         "ai_health",
		method:     http.MethodGet,
		path:       "/v1/ai/health",
		out:        &out,
		idempotent: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
