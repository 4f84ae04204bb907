package store

import (
	"testing"
	"time"
)

func TestWeightCacheRoundtrip(t *testing.T) {
	c := NewWeightCache(4, time.Minute)
	lw := testWeights("u1")

	if _, ok := c.Get("u1"); ok {
		t.Fatal("empty cache returned a hit")
	}

	c.Put(lw)
	got, ok := c.Get("u1")
	if !ok {
		t.Fatal("cache miss after Put")
	}
	if !got.Equal(lw) {
		t.Errorf("got %+v, want %+v", got, lw)
	}
}

func TestWeightCacheInvalidate(t *testing.T) {
	c := NewWeightCache(4, time.Minute)
	c.Put(testWeights("u1"))
	c.Invalidate("u1")

	if _, ok := c.Get("u1"); ok {
		t.Error("invalidated entry still served")
	}
}

func TestWeightCacheEvictsAtCapacity(t *testing.T) {
	c := NewWeightCache(2, time.Minute)
	c.Put(testWeights("u1"))
	c.Put(testWeights("u2"))
	c.Put(testWeights("u3"))

	if c.Len() > 2 {
		t.Errorf("len = %d, want <= capacity 2", c.Len())
	}
}

func TestWeightCacheZeroSizeGetsDefault(t *testing.T) {
	c := NewWeightCache(0, time.Minute)
	c.Put(testWeights("u1"))
	if _, ok := c.Get("u1"); !ok {
		t.Error("zero-size cache should fall back to a usable default capacity")
	}
}
