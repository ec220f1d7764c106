// Package search maintains the full-text projection of message bodies in
// Elasticsearch and answers scoped phrase-prefix queries over it.
//
// The projection is a best-effort secondary index, never the source of
// truth: documents are pushed after the relational write commits, indexing
// failures are reported to the caller but must not roll anything back, and
// EnsureIndex doubles as the rebuild escape hatch. The package does no
// logging of its own; callers decide how and what to log.
package search

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/tbourn/go-chat-system/internal/config"
)

// Client wraps an Elasticsearch connection bound to one index.
type Client struct {
	es    *elasticsearch.Client
	index string
}

// Option customizes client construction.
type Option func(*elasticsearch.Config)

// WithTransport overrides the HTTP transport; tests use it to stub the
// cluster.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *elasticsearch.Config) { c.Transport = rt }
}

// New connects to the configured cluster. The connection is lazy; the first
// request surfaces connectivity problems.
func New(cfg config.SearchConfig, opts ...Option) (*Client, error) {
	esCfg := elasticsearch.Config{Addresses: cfg.Addresses}
	for _, o := range opts {
		o(&esCfg)
	}
	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, err
	}
	return &Client{es: es, index: cfg.Index}, nil
}

// Index returns the index name this client operates on.
func (c *Client) Index() string { return c.index }
