package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	// PostsListKey caches the projected newest-first post listing.
	PostsListKey = "posts:list"

	postKeyPrefix = "post:%s"
)

const (
	ListTTL = 1 * time.Minute
	PostTTL = 5 * time.Minute
)

// PostKey returns the cache key for a single post by hex ID.
func PostKey(postID string) string {
	return fmt.Sprintf(postKeyPrefix, postID)
}

// Invalidate removes a key; a nil client makes this a no-op.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePost drops both the single-post entry and the listing, since any
// post mutation changes what the listing shows.
func InvalidatePost(ctx context.Context, postID string) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, PostsListKey)
}
