package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ValkeyClient de-duplicates inbound webhook deliveries. Messaging channels
// redeliver on slow responses; a redelivered message SID must not advance
// the conversation twice.
type ValkeyClient struct {
	client   *redis.Client
	dedupTTL time.Duration
}

type Config struct {
	Addr     string
	Password string
	DedupTTL time.Duration
}

// NewValkeyClient connects to valkey; an empty addr disables the cache and
// returns nil without error, callers must treat a nil client as "no dedup".
func NewValkeyClient(cfg Config) (*ValkeyClient, error) {
	if cfg.Addr == "" {
		return nil, nil
	}
	if cfg.DedupTTL == 0 {
		cfg.DedupTTL = 24 * time.Hour
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to valkey: %w", err)
	}

	return &ValkeyClient{client: rdb, dedupTTL: cfg.DedupTTL}, nil
}

// MarkProcessed records a message SID and reports whether it was seen
// before. Errors degrade to "not seen": processing a turn twice on a cache
// outage beats dropping it.
func (vc *ValkeyClient) MarkProcessed(ctx context.Context, messageSID string) bool {
	if messageSID == "" {
		return false
	}

	ok, err := vc.client.SetNX(ctx, "inbound:"+messageSID, 1, vc.dedupTTL).Result()
	if err != nil {
		return false
	}
	return !ok
}

func (vc *ValkeyClient) Close() error {
	return vc.client.Close()
}
