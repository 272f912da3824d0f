package cache

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"trip-validation-service/internal/ports"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := InitSqliteSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return db
}

func TestSqliteDurationCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewSqliteDurationCache(openTestDB(t))

	durations := map[string]string{
		"故宮博物院": "25 分鐘",
		"士林夜市":  "1 小時 5 分鐘",
	}
	if err := c.PutMany(ctx, "台北101", "driving", durations); err != nil {
		t.Fatalf("put many: %v", err)
	}

	got, err := c.GetMany(ctx, "台北101", "driving", []string{"故宮博物院", "士林夜市", "未知地點"})
	if err != nil {
		t.Fatalf("get many: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(got))
	}
	if got["故宮博物院"] != "25 分鐘" {
		t.Fatalf("wrong duration text %q", got["故宮博物院"])
	}
}

func TestSqliteDurationCacheModeIsPartOfTheKey(t *testing.T) {
	ctx := context.Background()
	c := NewSqliteDurationCache(openTestDB(t))

	if err := c.PutMany(ctx, "台北101", "driving", map[string]string{"故宮博物院": "25 分鐘"}); err != nil {
		t.Fatalf("put many: %v", err)
	}

	got, err := c.GetMany(ctx, "台北101", "transit", []string{"故宮博物院"})
	if err != nil {
		t.Fatalf("get many: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("transit lookup must miss a driving entry, got %v", got)
	}
}

func TestSqliteDurationCacheOverwrites(t *testing.T) {
	ctx := context.Background()
	c := NewSqliteDurationCache(openTestDB(t))

	if err := c.PutMany(ctx, "A", "driving", map[string]string{"B": "10 分鐘"}); err != nil {
		t.Fatalf("put many: %v", err)
	}
	if err := c.PutMany(ctx, "A", "driving", map[string]string{"B": "12 分鐘"}); err != nil {
		t.Fatalf("put many again: %v", err)
	}

	got, err := c.GetMany(ctx, "A", "driving", []string{"B"})
	if err != nil {
		t.Fatalf("get many: %v", err)
	}
	if got["B"] != "12 分鐘" {
		t.Fatalf("expected updated text, got %q", got["B"])
	}
}

func TestSqliteHoursCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewSqliteHoursCache(openTestDB(t))

	hours := ports.PlaceHours{
		Name: "故宮博物院",
		WeekdayLines: []string{
			"星期一: 休息",
			"星期二: 09:00 – 17:00",
		},
	}
	if err := c.Put(ctx, "故宮博物院", hours); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := c.Get(ctx, "故宮博物院")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if len(got.WeekdayLines) != 2 || got.WeekdayLines[0] != "星期一: 休息" {
		t.Fatalf("wrong lines %v", got.WeekdayLines)
	}
}

func TestSqliteHoursCacheMiss(t *testing.T) {
	c := NewSqliteHoursCache(openTestDB(t))

	_, ok, err := c.Get(context.Background(), "不存在的地點")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected a cache miss")
	}
}
