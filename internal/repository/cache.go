package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tablescape/tablescape-orders-service/internal/config"
	"github.com/tablescape/tablescape-orders-service/internal/logging"
	"github.com/tablescape/tablescape-orders-service/internal/models"
)

const (
	quoteKeyPrefix  = "quote:"
	defaultCacheTTL = 5 * time.Minute
)

// RedisQuoteCache implements QuoteCache using Redis.
type RedisQuoteCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewRedisQuoteCache creates a new Redis-based quote cache.
func NewRedisQuoteCache(cfg config.RedisConfig) *RedisQuoteCache {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultCacheTTL
	}

	return &RedisQuoteCache{
		client: client,
		ttl:    ttl,
		logger: logging.NewLogger("quote-cache"),
	}
}

// Get retrieves a cached quote by input hash.
func (c *RedisQuoteCache) Get(ctx context.Context, key string) (*models.Quote, error) {
	data, err := c.client.Get(ctx, quoteKeyPrefix+key).Bytes()
	if err == redis.Nil {
		c.logger.Debug("Cache miss", logging.Fields{"key": key})
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Cache get error", logging.Fields{
			"key":   key,
			"error": err.Error(),
		})
		return nil, err
	}

	var quote models.Quote
	if err := json.Unmarshal(data, &quote); err != nil {
		return nil, err
	}

	c.logger.Debug("Cache hit", logging.Fields{"key": key, "quote_id": quote.ID})
	return &quote, nil
}

// Set stores a quote under its input hash.
func (c *RedisQuoteCache) Set(ctx context.Context, key string, quote *models.Quote) error {
	data, err := json.Marshal(quote)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, quoteKeyPrefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Error("Cache set error", logging.Fields{
			"key":   key,
			"error": err.Error(),
		})
		return err
	}

	c.logger.Debug("Quote cached", logging.Fields{
		"key":      key,
		"quote_id": quote.ID,
		"ttl":      c.ttl.String(),
	})
	return nil
}

// Delete removes a cached quote.
func (c *RedisQuoteCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, quoteKeyPrefix+key).Err()
}

// Close releases the underlying Redis connection.
func (c *RedisQuoteCache) Close() error {
	return c.client.Close()
}
