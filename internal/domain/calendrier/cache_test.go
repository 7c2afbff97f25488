package calendrier

import (
	"testing"
	"time"
)

func TestMemoryPeriodCachePutGet(t *testing.T) {
	c := NewMemoryPeriodCache(time.Minute)
	start, end := day(2024, 6, 1), day(2024, 6, 30)
	payload := &PeriodeData{Debut: start, Fin: end}

	if _, ok := c.Get(start, end); ok {
		t.Fatal("expected a miss on an empty cache")
	}
	c.Put(start, end, payload)
	got, ok := c.Get(start, end)
	if !ok || got != payload {
		t.Fatal("expected the stored payload instance back")
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.Len())
	}
}

func TestMemoryPeriodCacheKeyedByWindow(t *testing.T) {
	c := NewMemoryPeriodCache(time.Minute)
	c.Put(day(2024, 6, 1), day(2024, 6, 30), &PeriodeData{})

	if _, ok := c.Get(day(2024, 6, 1), day(2024, 6, 15)); ok {
		t.Error("a different window must miss")
	}
	if _, ok := c.Get(day(2024, 6, 2), day(2024, 6, 30)); ok {
		t.Error("a different window must miss")
	}
}

func TestMemoryPeriodCacheExpiry(t *testing.T) {
	c := NewMemoryPeriodCache(-time.Second)
	start, end := day(2024, 6, 1), day(2024, 6, 30)
	c.Put(start, end, &PeriodeData{})

	if _, ok := c.Get(start, end); ok {
		t.Fatal("expected an expired entry to miss")
	}
	// The expired entry is dropped on lookup.
	if c.Len() != 0 {
		t.Errorf("expected the expired entry to be deleted, got %d", c.Len())
	}
}

func TestMemoryPeriodCacheInvalidateAll(t *testing.T) {
	c := NewMemoryPeriodCache(time.Minute)
	c.Put(day(2024, 6, 1), day(2024, 6, 30), &PeriodeData{})
	c.Put(day(2024, 7, 1), day(2024, 7, 31), &PeriodeData{})

	c.InvalidateAll()
	if c.Len() != 0 {
		t.Errorf("expected an empty cache, got %d entries", c.Len())
	}
	if _, ok := c.Get(day(2024, 6, 1), day(2024, 6, 30)); ok {
		t.Error("expected a miss after invalidation")
	}
}
