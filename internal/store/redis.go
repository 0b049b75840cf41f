package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/mitchellh/mapstructure"

	"github.com/Xael/reversusfinal/internal/game"
)

// RedisStore keeps each save in a hash and unlocks in a set.
type RedisStore struct {
	rdb *redis.Client
}

var _ SaveStore = (*RedisStore)(nil)

// RedisOptions selects the server.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// OpenRedis connects and pings the server.
func OpenRedis(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func saveKey(profile string) string        { return "reversus:save:" + profile }
func achievementsKey(profile string) string { return "reversus:achievements:" + profile }

func (s *RedisStore) Close() error { return s.rdb.Close() }

func (s *RedisStore) SaveGame(ctx context.Context, profile string, doc *game.SaveDocument) error {
	data, err := game.EncodeSave(doc)
	if err != nil {
		return err
	}
	m := metaOf(doc)
	fields := map[string]interface{}{
		"id":             m.ID,
		"battle":         m.Battle,
		"elapsedSeconds": m.ElapsedSeconds,
		"savedAt":        m.SavedAt.Format(time.RFC3339Nano),
		"data":           data,
	}
	if err := s.rdb.HSet(ctx, saveKey(profile), fields).Err(); err != nil {
		return fmt.Errorf("save game for %s: %w", profile, err)
	}
	return nil
}

func (s *RedisStore) LoadGame(ctx context.Context, profile string) (*game.SaveDocument, error) {
	data, err := s.rdb.HGet(ctx, saveKey(profile), "data").Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSave
	}
	if err != nil {
		return nil, fmt.Errorf("load game for %s: %w", profile, err)
	}
	return game.DecodeSave(data)
}

func (s *RedisStore) DeleteGame(ctx context.Context, profile string) error {
	if err := s.rdb.Del(ctx, saveKey(profile)).Err(); err != nil {
		return fmt.Errorf("delete game for %s: %w", profile, err)
	}
	return nil
}

func (s *RedisStore) Meta(ctx context.Context, profile string) (SaveMeta, error) {
	h, err := s.rdb.HGetAll(ctx, saveKey(profile)).Result()
	if err != nil {
		return SaveMeta{}, fmt.Errorf("save meta for %s: %w", profile, err)
	}
	if len(h) == 0 {
		return SaveMeta{}, ErrNoSave
	}
	delete(h, "data")
	return decodeMeta(h)
}

// decodeMeta turns the string fields of a save hash into a SaveMeta.
func decodeMeta(h map[string]string) (SaveMeta, error) {
	var m SaveMeta
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToIntHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
		),
		Result: &m,
	})
	if err != nil {
		return SaveMeta{}, err
	}
	if err := dec.Decode(h); err != nil {
		return SaveMeta{}, fmt.Errorf("decode save meta: %w", err)
	}
	return m, nil
}

func stringToIntHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Kind, to reflect.Kind, data interface{}) (interface{}, error) {
		if from == reflect.String && to == reflect.Int {
			return strconv.Atoi(data.(string))
		}
		return data, nil
	}
}

func (s *RedisStore) SaveAchievements(ctx context.Context, profile string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	members := make([]interface{}, len(ids))
	for i, id := range ids {
		members[i] = id
	}
	if err := s.rdb.SAdd(ctx, achievementsKey(profile), members...).Err(); err != nil {
		return fmt.Errorf("save achievements for %s: %w", profile, err)
	}
	return nil
}

func (s *RedisStore) LoadAchievements(ctx context.Context, profile string) ([]string, error) {
	ids, err := s.rdb.SMembers(ctx, achievementsKey(profile)).Result()
	if err != nil {
		return nil, fmt.Errorf("load achievements for %s: %w", profile, err)
	}
	return ids, nil
}
