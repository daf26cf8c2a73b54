package exportcache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/summarizer-backend/internal/domain/export"
)

// ValkeyCache stores rendered exports in a Valkey-compatible database.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "summarizer"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

// Get implements export.Cache.
func (c *ValkeyCache) Get(ctx context.Context, key string) (export.Payload, bool, error) {
	cmd := c.client.B().Get().Key(c.key(key)).Build()
	raw, err := c.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return export.Payload{}, false, nil
		}
		return export.Payload{}, false, err
	}
	var payload export.Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return export.Payload{}, false, err
	}
	return payload, true, nil
}

// Set implements export.Cache. A zero ttl stores without expiry.
func (c *ValkeyCache) Set(ctx context.Context, key string, payload export.Payload, ttl time.Duration) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(c.key(key)).Value(valkey.BinaryString(raw))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) key(key string) string {
	return c.prefix + ":" + key
}

var _ export.Cache = (*ValkeyCache)(nil)
