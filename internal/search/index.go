package search

import (
	"context"
	"fmt"
	"strings"
)

// indexBody is the index definition: a custom analyzer (standard tokenizer,
// lowercasing, stopword removal, snowball stemming) over the message body,
// exact-match keyword for the tenant token, integers for the chat/message
// numbers, and a date timestamp for recency sorting.
const indexBody = `{
  "settings": {
    "analysis": {
      "analyzer": {
        "message_analyzer": {
          "type": "custom",
          "tokenizer": "standard",
          "filter": ["lowercase", "stop", "snowball"]
        }
      }
    }
  },
  "mappings": {
    "properties": {
      "application_token": {"type": "keyword"},
      "chat_number": {"type": "integer"},
      "message_number": {"type": "integer"},
      "body": {
        "type": "text",
        "analyzer": "message_analyzer",
        "fields": {"keyword": {"type": "keyword", "ignore_above": 256}}
      },
      "timestamp": {"type": "date"}
    }
  }
}`

// EnsureIndex (re)creates the index idempotently: any existing index of the
// same name is dropped first. This is destructive on purpose: it is both
// first-time setup and the reindex escape hatch when the projection has
// diverged from the system of record.
func (c *Client) EnsureIndex(ctx context.Context) error {
	exists, err := c.es.Indices.Exists(
		[]string{c.index},
		c.es.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search: check index: %w", err)
	}
	defer exists.Body.Close()

	if exists.StatusCode == 200 {
		del, err := c.es.Indices.Delete(
			[]string{c.index},
			c.es.Indices.Delete.WithContext(ctx),
		)
		if err != nil {
			return fmt.Errorf("search: delete index: %w", err)
		}
		defer del.Body.Close()
		if del.IsError() {
			return fmt.Errorf("search: delete index: %s", del.String())
		}
	}

	create, err := c.es.Indices.Create(
		c.index,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(strings.NewReader(indexBody)),
	)
	if err != nil {
		return fmt.Errorf("search: create index: %w", err)
	}
	defer create.Body.Close()
	if create.IsError() {
		return fmt.Errorf("search: create index: %s", create.String())
	}
	return nil
}
