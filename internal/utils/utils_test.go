package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("user-1", "ADMIN", "s3cret")
	require.NoError(t, err)

	claims, err := ParseJWT(token, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)

	_, err = ParseJWT(token, "other")
	assert.Error(t, err)
}

func TestJWTRejectsExpiredAndForeignAlg(t *testing.T) {
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:           "user-1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
	})
	s, err := expired.SignedString([]byte("k"))
	require.NoError(t, err)
	_, err = ParseJWT(s, "k")
	assert.Error(t, err)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: "user-1"})
	s, err = hs512.SignedString([]byte("k"))
	require.NoError(t, err)
	_, err = ParseJWT(s, "k")
	assert.Error(t, err)
}

func TestCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()

	var got []string
	found, err := GetCache(ctx, rdb, CacheKeyRanking, &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetCache(ctx, rdb, CacheKeyRanking, []string{"a", "b"}, time.Minute))
	found, err = GetCache(ctx, rdb, CacheKeyRanking, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"a", "b"}, got)

	mr.FastForward(2 * time.Minute)
	found, _ = GetCache(ctx, rdb, CacheKeyRanking, &got)
	assert.False(t, found, "entry expires after its TTL")

	require.NoError(t, SetCache(ctx, rdb, CacheKeyRewards, 1, time.Minute))
	require.NoError(t, DeleteCache(ctx, rdb, CacheKeyRewards, CacheKeyRanking))
	assert.False(t, mr.Exists(CacheKeyRewards))
}

func TestCacheDisabledWithoutClient(t *testing.T) {
	ctx := context.Background()
	var v int
	found, err := GetCache(ctx, nil, "k", &v)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, SetCache(ctx, nil, "k", 1, time.Second))
	assert.NoError(t, DeleteCache(ctx, nil, "k"))
}
