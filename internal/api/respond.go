// Package api holds the gin handlers of the hub.
package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"time"     // Cache TTL

	"ejn_hub/internal/domain"     // Importing domain models
	"ejn_hub/internal/middleware" // Authenticated user lookup
	"ejn_hub/internal/store"      // Data layer
	"ejn_hub/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// currentUser returns the profile loaded by the auth middlewares
func currentUser(c *gin.Context) domain.User {
	user, _ := middleware.CurrentUser(c)
	return user
}

// respondStoreError maps data layer errors to a JSON error response
func respondStoreError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, store.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Conflicting change"})
	default:
		logrus.WithFields(logrus.Fields{
			"action": action,
			"error":  err.Error(),
		}).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// invalidate drops cached views after a write; a failure only costs a stale read until the TTL
func invalidate(ctx context.Context, rdb *redis.Client, keys ...string) {
	if err := utils.DeleteCache(ctx, rdb, keys...); err != nil {
		logrus.WithFields(logrus.Fields{
			"keys":  keys,
			"error": err.Error(),
		}).Warn("Cache invalidation failed")
	}
}

// cached serves key from Redis, falling back to load and refilling the cache. Redis
// errors degrade to a database read.
func cached[T any](ctx context.Context, rdb *redis.Client, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var v T
	if ok, err := utils.GetCache(ctx, rdb, key, &v); err == nil && ok {
		return v, nil
	} else if err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Cache read failed")
	}
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if err := utils.SetCache(ctx, rdb, key, v, ttl); err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Cache write failed")
	}
	return v, nil
}

// setIf copies an optional request field into an update map
func setIf[T any](fields map[string]any, column string, v *T) {
	if v != nil {
		fields[column] = *v
	}
}

// deref returns the pointed-to value or the zero value
func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
