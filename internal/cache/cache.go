// Package cache is the optional Valkey-backed parse cache. Documents
// are keyed by their content hash, so a cache hit is always consistent
// with the text it was parsed from and invalidation is free: new text,
// new key.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/maraichr/sqlgrid/internal/config"
	"github.com/maraichr/sqlgrid/pkg/models"
)

const keyPrefix = "sqlgrid:parse:"

// NewClient connects to Valkey and verifies connectivity with a ping.
func NewClient(cfg config.ValkeyConfig) (valkey.Client, error) {
	opts := valkey.ClientOption{
		InitAddress: []string{cfg.Addr},
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("create valkey client: %w", err)
	}

	ctx := context.Background()
	resp := client.Do(ctx, client.B().Ping().Build())
	if err := resp.Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping valkey: %w", err)
	}

	return client, nil
}

// Cache stores parsed documents under their content hash with a TTL.
// All operations are best-effort: a cache failure is a miss, never an
// error the caller has to handle.
type Cache struct {
	client valkey.Client
	ttl    time.Duration
	logger *slog.Logger
}

func New(client valkey.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached parse for a content hash, or false on a miss.
func (c *Cache) Get(ctx context.Context, hash string) (models.Document, bool) {
	resp := c.client.Do(ctx, c.client.B().Get().Key(keyPrefix+hash).Build())
	data, err := resp.AsBytes()
	if err != nil {
		if !valkey.IsValkeyNil(err) {
			c.logger.Warn("parse cache read failed", slog.String("error", err.Error()))
		}
		return models.Document{}, false
	}
	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.Document{}, false
	}
	return doc, true
}

// Put stores a parsed document under its content hash.
func (c *Cache) Put(ctx context.Context, hash string, doc models.Document) {
	data, err := json.Marshal(doc)
	if err != nil {
		return
	}
	resp := c.client.Do(ctx, c.client.B().Set().Key(keyPrefix+hash).Value(string(data)).Ex(c.ttl).Build())
	if err := resp.Error(); err != nil {
		c.logger.Warn("parse cache write failed", slog.String("error", err.Error()))
	}
}
