package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// RedisConfig holds the settings of the Redis instance backing one-time
// codes and consumer deduplication.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int

	PoolSize    int
	DialTimeout time.Duration
}

// Addr returns the Redis address string.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c RedisConfig) options() *redis.Options {
	opts := &redis.Options{
		Addr:     c.Addr(),
		Password: c.Password,
		DB:       c.DB,
	}
	if c.PoolSize > 0 {
		opts.PoolSize = c.PoolSize
	}
	if c.DialTimeout > 0 {
		opts.DialTimeout = c.DialTimeout
	}
	return opts
}

// NewRedisClient connects to Redis and pings it, retrying with the same
// backoff as NewPostgresPool. logger may be nil.
func NewRedisClient(ctx context.Context, cfg RedisConfig, logger *slog.Logger) (*redis.Client, error) {
	client := redis.NewClient(cfg.options())

	var lastErr error
	for attempt := 0; attempt < defaultRetryAttempts; attempt++ {
		if attempt > 0 {
			wait := retryBackoff(attempt - 1)
			if logger != nil {
				logger.Warn("redis ping failed, retrying",
					slog.String("addr", cfg.Addr()),
					slog.Int("attempt", attempt+1),
					slog.Duration("backoff", wait),
					slog.String("error", lastErr.Error()),
				)
			}
			select {
			case <-ctx.Done():
				_ = client.Close()
				return nil, fmt.Errorf("connect to redis: %w", ctx.Err())
			case <-time.After(wait):
			}
		}
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return client, nil
		}
	}

	_ = client.Close()
	return nil, fmt.Errorf("ping redis after %d attempts: %w", defaultRetryAttempts, lastErr)
}

// RedisPoolCollector exports go-redis connection pool statistics.
type RedisPoolCollector struct {
	stats   func() *redis.PoolStats
	service string

	hits       *prometheus.Desc
	misses     *prometheus.Desc
	timeouts   *prometheus.Desc
	totalConns *prometheus.Desc
	idleConns  *prometheus.Desc
}

// NewRedisPoolCollector creates a collector reading stats from client.
func NewRedisPoolCollector(client *redis.Client, service string) *RedisPoolCollector {
	return newRedisPoolCollector(client.PoolStats, service)
}

func newRedisPoolCollector(stats func() *redis.PoolStats, service string) *RedisPoolCollector {
	labels := []string{"service"}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(name, help, labels, nil)
	}
	return &RedisPoolCollector{
		stats:      stats,
		service:    service,
		hits:       desc("redis_pool_hits_total", "Times a free connection was found in the pool"),
		misses:     desc("redis_pool_misses_total", "Times a free connection was not found in the pool"),
		timeouts:   desc("redis_pool_timeouts_total", "Times a wait for a pooled connection timed out"),
		totalConns: desc("redis_pool_total_connections", "Number of connections in the pool"),
		idleConns:  desc("redis_pool_idle_connections", "Number of idle connections in the pool"),
	}
}

// Describe implements prometheus.Collector.
func (c *RedisPoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.timeouts
	ch <- c.totalConns
	ch <- c.idleConns
}

// Collect implements prometheus.Collector.
func (c *RedisPoolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()
	emit := func(d *prometheus.Desc, t prometheus.ValueType, v uint32) {
		ch <- prometheus.MustNewConstMetric(d, t, float64(v), c.service)
	}
	emit(c.hits, prometheus.CounterValue, s.Hits)
	emit(c.misses, prometheus.CounterValue, s.Misses)
	emit(c.timeouts, prometheus.CounterValue, s.Timeouts)
	emit(c.totalConns, prometheus.GaugeValue, s.TotalConns)
	emit(c.idleConns, prometheus.GaugeValue, s.IdleConns)
}

// RegisterRedisMetrics registers a Redis pool collector with the default
// registry.
func RegisterRedisMetrics(client *redis.Client, service string) {
	prometheus.MustRegister(NewRedisPoolCollector(client, service))
}
