package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// TestDecodeMeta: hash fields decode into typed metadata.
func TestDecodeMeta(t *testing.T) {
	m, err := decodeMeta(map[string]string{
		"id":             "abc",
		"battle":         "versatrix",
		"elapsedSeconds": "310",
		"savedAt":        "2024-03-09T18:30:00Z",
	})
	if err != nil {
		t.Fatalf("decodeMeta: %v", err)
	}
	want := time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC)
	if m.ID != "abc" || m.Battle != "versatrix" || m.ElapsedSeconds != 310 || !m.SavedAt.Equal(want) {
		t.Errorf("unexpected meta %+v", m)
	}

	if _, err := decodeMeta(map[string]string{"elapsedSeconds": "lots"}); err == nil {
		t.Error("Expected an error for a non-numeric elapsed time")
	}
}

// TestRedisStore runs against a live server named by REVERSUS_TEST_REDIS.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REVERSUS_TEST_REDIS")
	if addr == "" {
		t.Skip("REVERSUS_TEST_REDIS not set")
	}
	ctx := context.Background()
	s, err := OpenRedis(ctx, RedisOptions{Addr: addr, DB: 15})
	if err != nil {
		t.Fatalf("OpenRedis: %v", err)
	}
	defer s.Close()
	profile := "test-" + time.Now().Format("150405.000")
	defer s.DeleteGame(ctx, profile)
	defer s.rdb.Del(ctx, achievementsKey(profile))

	doc := storyDoc(t)
	if err := s.SaveGame(ctx, profile, doc); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	back, err := s.LoadGame(ctx, profile)
	if err != nil || back.ID != doc.ID {
		t.Fatalf("LoadGame: %v", err)
	}
	meta, err := s.Meta(ctx, profile)
	if err != nil || meta.ElapsedSeconds != 42 {
		t.Errorf("Meta: %+v %v", meta, err)
	}

	s.SaveAchievements(ctx, profile, []string{"first_win", "first_win", "xael_win"})
	ids, _ := s.LoadAchievements(ctx, profile)
	if len(ids) != 2 {
		t.Errorf("Expected 2 unlocks, got %v", ids)
	}

	s.DeleteGame(ctx, profile)
	if _, err := s.LoadGame(ctx, profile); !errors.Is(err, ErrNoSave) {
		t.Errorf("Expected ErrNoSave, got %v", err)
	}
}
