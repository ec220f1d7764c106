package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Document is the indexed projection of a message. It carries the external
// coordinates (token + numbers), never internal row ids.
type Document struct {
	ApplicationToken string    `json:"application_token"`
	ChatNumber       int64     `json:"chat_number"`
	MessageNumber    int64     `json:"message_number"`
	Body             string    `json:"body"`
	Timestamp        time.Time `json:"timestamp"`
}

// Result is one search hit, shaped for the API response.
type Result struct {
	MessageNumber int64  `json:"message_number"`
	Body          string `json:"body"`
	Timestamp     string `json:"timestamp"`
}

// IndexMessage upserts one document. The document id is derived from the
// (token, chat, message) coordinates so an at-least-once replay of the same
// message overwrites rather than duplicates.
func (c *Client) IndexMessage(ctx context.Context, doc Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("search: encode document: %w", err)
	}
	docID := doc.ApplicationToken + ":" +
		strconv.FormatInt(doc.ChatNumber, 10) + ":" +
		strconv.FormatInt(doc.MessageNumber, 10)

	res, err := c.es.Index(
		c.index,
		bytes.NewReader(payload),
		c.es.Index.WithContext(ctx),
		c.es.Index.WithDocumentID(docID),
	)
	if err != nil {
		return fmt.Errorf("search: index document: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search: index document: %s", res.String())
	}
	return nil
}

// searchRequest mirrors the query DSL sent to the cluster: exact tenant and
// chat filters plus a phrase-prefix relevance match on the body, sorted by
// score then recency.
func searchRequest(token string, chatNumber int64, query string) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": []any{
					map[string]any{"term": map[string]any{"application_token": token}},
					map[string]any{"term": map[string]any{"chat_number": chatNumber}},
					map[string]any{
						"multi_match": map[string]any{
							"query":    query,
							"fields":   []string{"body^2"},
							"type":     "phrase_prefix",
							"operator": "and",
						},
					},
				},
			},
		},
		"sort": []any{
			map[string]any{"_score": map[string]any{"order": "desc"}},
			map[string]any{"timestamp": map[string]any{"order": "desc"}},
		},
	}
}

// Search runs a tenant- and chat-scoped full-text query over message bodies.
// Results are ordered by relevance score descending, then timestamp
// descending. An empty result set returns an empty slice, not an error.
func (c *Client) Search(ctx context.Context, token string, chatNumber int64, query string) ([]Result, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(searchRequest(token, chatNumber, query)); err != nil {
		return nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search: query: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search: query: %s", res.String())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source Result `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("search: decode response: %w", err)
	}

	out := make([]Result, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
