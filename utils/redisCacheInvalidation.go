package utils

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// InvalidateCache deletes all cached keys under the given prefix
// (e.g. "activity_progress"). SCAN instead of KEYS to avoid blocking Redis.
func InvalidateCache(rdb *redis.Client, resourceType string) error {
	pattern := fmt.Sprintf("%s:*", resourceType)
	iter := rdb.Scan(context.Background(), 0, pattern, 0).Iterator()

	for iter.Next(context.Background()) {
		key := iter.Val()
		err := rdb.Del(context.Background(), key).Err()
		if err != nil {
			return fmt.Errorf("failed to delete key %s: %v", key, err)
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("error during SCAN iteration: %v", err)
	}

	return nil
}

// InvalidateCacheAsync invalidates the cache for a given resource type asynchronously
func InvalidateCacheAsync(rdb *redis.Client, resourceType string) {
	go func() {
		err := InvalidateCache(rdb, resourceType)
		if err != nil {
			// Log the error, but don't block the process
			log.Printf("Cache invalidation failed for resource type '%s': %v", resourceType, err)
		}
	}()
}
