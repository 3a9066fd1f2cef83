// Package redis_client owns the single shared redis client the query cache
// (pkg/querycache) is built on top of: a package-level Client set up once at
// process start.
package redis_client

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/tempuscore/tempuscore/pkg/config"
)

var Client *redis.Client

// Connect dials redis using cfg and verifies the connection with a PING.
// Client is left nil on error so callers can detect a failed connect without
// a panic deep inside a cache lookup.
func Connect(cfg config.Config) error {
	Client = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDatabase,
	})

	if err := Client.Ping(context.Background()).Err(); err != nil {
		Client = nil
		return err
	}

	return nil
}
