package store

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/haasonsaas/memorable/pkg/models"
)

// WeightCache is an explicit, injectable cache of per-user learned
// weights. The scorer path reads weights on every capture; this keeps the
// hot path off the database without hiding state in a process global, so
// tests construct their own caches and cannot leak across each other.
type WeightCache struct {
	lru *expirable.LRU[string, models.LearnedWeights]
}

// NewWeightCache creates a cache holding up to size entries, each expiring
// after ttl. A ttl of 0 disables expiry.
func NewWeightCache(size int, ttl time.Duration) *WeightCache {
	if size <= 0 {
		size = 1000
	}
	return &WeightCache{
		lru: expirable.NewLRU[string, models.LearnedWeights](size, nil, ttl),
	}
}

// Get returns a user's cached weights, if present and unexpired.
func (c *WeightCache) Get(userID string) (models.LearnedWeights, bool) {
	return c.lru.Get(userID)
}

// Put stores a user's weights.
func (c *WeightCache) Put(lw models.LearnedWeights) {
	c.lru.Add(lw.UserID, lw)
}

// Invalidate drops a user's cached entry; called after recalibration so
// readers never see stale vectors.
func (c *WeightCache) Invalidate(userID string) {
	c.lru.Remove(userID)
}

// Len returns the number of live entries.
func (c *WeightCache) Len() int {
	return c.lru.Len()
}
