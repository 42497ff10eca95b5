package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Abel5173/pulsecode/pulse"
)

const redisKeyPrefix = "pulse:session:"

// Redis keeps session records in a redis instance, for deployments
// already running one for the chat layer.
type Redis struct {
	rdb *redis.Client
}

func NewRedis(redisURL string) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Redis{rdb: rdb}, nil
}

func (s *Redis) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func redisKey(mode pulse.Mode, key string) string {
	return redisKeyPrefix + string(mode) + ":" + key
}

func (s *Redis) Save(ctx context.Context, snap pulse.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode session %s/%s: %w", snap.Mode, snap.Key, err)
	}
	if err := s.rdb.Set(ctx, redisKey(snap.Mode, snap.Key), data, 0).Err(); err != nil {
		return fmt.Errorf("save session %s/%s: %w", snap.Mode, snap.Key, err)
	}
	return nil
}

func (s *Redis) LoadAll(ctx context.Context) ([]pulse.Snapshot, error) {
	var out []pulse.Snapshot
	iter := s.rdb.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		data, err := s.rdb.Get(ctx, iter.Val()).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load session %s: %w", iter.Val(), err)
		}
		var snap pulse.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("decode session %s: %w", iter.Val(), err)
		}
		out = append(out, snap)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan sessions: %w", err)
	}
	return out, nil
}

func (s *Redis) Delete(ctx context.Context, mode pulse.Mode, key string) error {
	if err := s.rdb.Del(ctx, redisKey(mode, key)).Err(); err != nil {
		return fmt.Errorf("delete session %s/%s: %w", mode, key, err)
	}
	return nil
}
