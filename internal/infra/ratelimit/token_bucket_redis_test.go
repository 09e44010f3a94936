//go:build e2e

package ratelimit_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"enhanced-seatmap/internal/infra/ratelimit"
	"enhanced-seatmap/internal/pkg/clock"
	"enhanced-seatmap/internal/pkg/config"
)

type TokenBucketSuite struct {
	suite.Suite
	container testcontainers.Container
	rdb       *redis.Client
	clock     *clock.MockClock
	bucket    *ratelimit.TokenBucket
}

func TestTokenBucketSuite(t *testing.T) {
	suite.Run(t, new(TokenBucketSuite))
}

func (s *TokenBucketSuite) SetupSuite() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
			Labels:       map[string]string{"purpose": "e2e-tests"},
		},
		Started: true,
	})
	s.Require().NoError(err)
	s.container = c

	host, err := c.Host(ctx)
	s.Require().NoError(err)
	port, err := c.MappedPort(ctx, nat.Port("6379/tcp"))
	s.Require().NoError(err)

	s.rdb = redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
	s.Require().NoError(s.rdb.Ping(ctx).Err())
}

func (s *TokenBucketSuite) TearDownSuite() {
	if s.rdb != nil {
		_ = s.rdb.Close()
	}
	if s.container != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.container.Terminate(ctx)
	}
}

func (s *TokenBucketSuite) SetupTest() {
	s.Require().NoError(s.rdb.FlushAll(context.Background()).Err())
	s.clock = clock.NewMockClock(time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC))
	s.bucket = ratelimit.NewTokenBucket(s.rdb, config.RedisConfig{
		Capacity:       3,
		RefillTokens:   1,
		RefillInterval: 2 * time.Second,
		KeyPrefix:      "rl:test",
	}, s.clock, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (s *TokenBucketSuite) allow(key string) ratelimit.Decision {
	d, err := s.bucket.Allow(context.Background(), key)
	require.NoError(s.T(), err)
	return d
}

func (s *TokenBucketSuite) TestBurstThenDeny() {
	for i := 2; i >= 0; i-- {
		d := s.allow("client-a")
		s.True(d.Allowed)
		s.Equal(int64(i), d.Remaining)
		s.Equal(3, d.Limit)
	}

	d := s.allow("client-a")
	s.False(d.Allowed)
	s.Equal(2*time.Second, d.RetryAfter)

	s.True(s.allow("client-b").Allowed, "buckets are per key")
}

func (s *TokenBucketSuite) TestRefill() {
	for range 3 {
		s.allow("client-a")
	}
	s.clock.Add(1500 * time.Millisecond)
	d := s.allow("client-a")
	s.False(d.Allowed)
	s.Equal(500*time.Millisecond, d.RetryAfter)

	s.clock.Add(time.Second)
	d = s.allow("client-a")
	s.True(d.Allowed)
	s.Equal(int64(0), d.Remaining)

	s.clock.Add(time.Minute)
	d = s.allow("client-a")
	s.True(d.Allowed)
	s.Equal(int64(2), d.Remaining, "refill is capped at capacity")
}

func (s *TokenBucketSuite) TestKeyExpires() {
	s.allow("client-a")
	ttl, err := s.rdb.TTL(context.Background(), "rl:test:client-a").Result()
	s.Require().NoError(err)
	s.Equal(time.Minute, ttl)
}
