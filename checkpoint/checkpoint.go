// Package checkpoint persists the last processed sequence number per stream
// shard so that a restarted poller resumes where it left off.
package checkpoint

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const DefaultKeyPrefix = "searchsync:checkpoint"

var (
	ErrMissingAddress = errors.New("redis address cannot be empty")
	ErrMissingShard   = errors.New("shard id cannot be empty")
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 . Store
type Store interface {
	// Get returns the last checkpointed sequence number, or "" if there is none
	Get(ctx context.Context, stream, shard string) (string, error)
	Set(ctx context.Context, stream, shard, sequenceNumber string) error
}

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 . IRedisClient
type IRedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

type RedisConfig struct {
	Address   string
	Username  string
	Password  string
	Database  int
	KeyPrefix string

	// TTL of zero keeps checkpoints forever
	TTL time.Duration

	// Client overrides the client built from Address
	Client IRedisClient
}

type Redis struct {
	cfg    *RedisConfig
	client IRedisClient
	log    *logrus.Entry
}

func NewRedis(cfg *RedisConfig) (*Redis, error) {
	if err := validateRedisConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to validate checkpoint config")
	}

	client := cfg.Client

	if client == nil {
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.Address,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.Database,
		})
	}

	return &Redis{
		cfg:    cfg,
		client: client,
		log:    logrus.WithField("pkg", "checkpoint"),
	}, nil
}

func validateRedisConfig(cfg *RedisConfig) error {
	if cfg == nil {
		return errors.New("checkpoint config cannot be nil")
	}

	if cfg.Client == nil && cfg.Address == "" {
		return ErrMissingAddress
	}

	if cfg.Username != "" && cfg.Password == "" {
		return errors.New("missing password (either use only password or fill out both)")
	}

	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}

	return nil
}

// Key returns the redis key holding the checkpoint for a shard
func (r *Redis) Key(stream, shard string) string {
	return strings.Join([]string{r.cfg.KeyPrefix, stream, shard}, ":")
}

func (r *Redis) Get(ctx context.Context, stream, shard string) (string, error) {
	if shard == "" {
		return "", ErrMissingShard
	}

	seq, err := r.client.Get(ctx, r.Key(stream, shard)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}

		return "", errors.Wrapf(err, "unable to get checkpoint for shard '%s'", shard)
	}

	return seq, nil
}

func (r *Redis) Set(ctx context.Context, stream, shard, sequenceNumber string) error {
	if shard == "" {
		return ErrMissingShard
	}

	if err := r.client.Set(ctx, r.Key(stream, shard), sequenceNumber, r.cfg.TTL).Err(); err != nil {
		return errors.Wrapf(err, "unable to set checkpoint for shard '%s'", shard)
	}

	r.log.WithField("shard", shard).Debugf("checkpointed sequence '%s'", sequenceNumber)

	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// Memory is a process-local Store used when no redis address is configured
type Memory struct {
	mtx  *sync.RWMutex
	seqs map[string]string
}

func NewMemory() *Memory {
	return &Memory{
		mtx:  &sync.RWMutex{},
		seqs: make(map[string]string),
	}
}

func (m *Memory) Get(_ context.Context, stream, shard string) (string, error) {
	if shard == "" {
		return "", ErrMissingShard
	}

	m.mtx.RLock()
	defer m.mtx.RUnlock()

	return m.seqs[stream+"/"+shard], nil
}

func (m *Memory) Set(_ context.Context, stream, shard, sequenceNumber string) error {
	if shard == "" {
		return ErrMissingShard
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.seqs[stream+"/"+shard] = sequenceNumber

	return nil
}
