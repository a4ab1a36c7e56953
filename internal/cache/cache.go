package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/wondertales/video-service/internal/types"
)

// StoryCache keeps per-child story lists warm for the admin screens. Only
// the story list is cached; reconciliation data is always read fresh.
type StoryCache struct {
	redis *redis.Client
}

func NewStoryCache(redisClient *redis.Client) *StoryCache {
	return &StoryCache{redis: redisClient}
}

const (
	storyListKey      = "wishbutton:stories:%s" // wishbutton:stories:childID
	storyListDuration = 5 * time.Minute
)

// GetStories returns the cached story list for a child, if present.
func (c *StoryCache) GetStories(ctx context.Context, childID string) ([]types.StoryProject, bool) {
	key := fmt.Sprintf(storyListKey, childID)

	cached, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}

	var stories []types.StoryProject
	if err := json.Unmarshal([]byte(cached), &stories); err != nil {
		return nil, false
	}
	return stories, true
}

// SetStories caches the story list for a child.
func (c *StoryCache) SetStories(ctx context.Context, childID string, stories []types.StoryProject) {
	key := fmt.Sprintf(storyListKey, childID)

	data, err := json.Marshal(stories)
	if err != nil {
		return
	}
	c.redis.Set(ctx, key, data, storyListDuration)
}

// Invalidate drops the cached story list for a child.
func (c *StoryCache) Invalidate(ctx context.Context, childID string) {
	key := fmt.Sprintf(storyListKey, childID)
	c.redis.Del(ctx, key)
}
