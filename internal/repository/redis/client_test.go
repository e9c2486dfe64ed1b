package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/iamasit07/gomoku/internal/domain"
	"github.com/iamasit07/gomoku/internal/service/bot"
)

var _ bot.MoveCache = (*MoveCache)(nil)

func newTestCache(t *testing.T) (*MoveCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := InitRedis(context.Background(), mr.Addr(), "")
	if err != nil || client == nil {
		t.Fatalf("InitRedis: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return NewMoveCache(client, time.Minute), mr
}

func TestMoveCacheRoundTrip(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	if _, ok := cache.Get(ctx, "gomoku:ai:HARD:1"); ok {
		t.Fatalf("empty cache should miss")
	}
	cache.Set(ctx, "gomoku:ai:HARD:1", domain.Point{X: 3, Y: 11})
	p, ok := cache.Get(ctx, "gomoku:ai:HARD:1")
	if !ok || p != (domain.Point{X: 3, Y: 11}) {
		t.Fatalf("Get = %v %v", p, ok)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok := cache.Get(ctx, "gomoku:ai:HARD:1"); ok {
		t.Fatalf("entry should expire after the ttl")
	}
}

func TestMoveCacheDropsCorruptEntry(t *testing.T) {
	cache, mr := newTestCache(t)
	mr.Set("gomoku:ai:HELL:2", "not json")
	if _, ok := cache.Get(context.Background(), "gomoku:ai:HELL:2"); ok {
		t.Fatalf("corrupt entry should miss")
	}
	if mr.Exists("gomoku:ai:HELL:2") {
		t.Fatalf("corrupt entry should be deleted")
	}
}

func TestInitRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	client, err := InitRedis(context.Background(), addr, "")
	if err != nil || client != nil {
		t.Fatalf("unreachable redis should give nil, nil; got %v %v", client, err)
	}
}

func TestEngineUsesSharedCache(t *testing.T) {
	cache, _ := newTestCache(t)
	e := bot.NewEngine(bot.WithCache(cache))
	g := domain.NewGame()
	for _, m := range [][2]int{{7, 7}, {8, 8}, {6, 8}, {8, 6}} {
		if _, err := g.ApplyMove(m[0], m[1]); err != nil {
			t.Fatalf("ApplyMove: %v", err)
		}
	}
	first, err := e.Decide(context.Background(), g, domain.Hard)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	second, err := e.Decide(context.Background(), g, domain.Hard)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if second.Source != bot.SourceCache || second.Move != first.Move {
		t.Fatalf("second decision should come from redis, got %+v", second)
	}
}
