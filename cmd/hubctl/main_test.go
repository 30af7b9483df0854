package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ejn_hub/internal/db"
	"ejn_hub/internal/domain"
	"ejn_hub/internal/realtime"
	"ejn_hub/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, dsn, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--db-driver", "sqlite", "--dsn", dsn}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// seed migrates a fresh database file and inserts a user and a reward
func seed(t *testing.T, points, stock int) (dsn string, user domain.User, reward domain.Reward) {
	t.Helper()
	dsn = filepath.Join(t.TempDir(), "hub.db")
	_, err := run(t, dsn, "", "migrate")
	require.NoError(t, err)

	conn, err := db.OpenDSN("sqlite", dsn, true)
	require.NoError(t, err)
	user = domain.User{Name: "Ana", Email: "ana@ejn.com", Password: "x", Role: domain.RoleColaborador, Points: points, TotalAccumulated: points}
	require.NoError(t, conn.Create(&user).Error)
	reward = domain.Reward{Name: "Caneca", Cost: 100, Stock: stock}
	require.NoError(t, conn.Create(&reward).Error)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	return dsn, user, reward
}

func balance(t *testing.T, dsn, userID string) int {
	t.Helper()
	conn, err := db.OpenDSN("sqlite", dsn, true)
	require.NoError(t, err)
	defer func() {
		sqlDB, _ := conn.DB()
		_ = sqlDB.Close()
	}()
	var u domain.User
	require.NoError(t, conn.Where("id = ?", userID).First(&u).Error)
	return u.Points
}

func TestRedeemAsksForConfirmation(t *testing.T) {
	dsn, user, reward := seed(t, 150, 1)

	out, err := run(t, dsn, "n\n", "redeem", user.ID, reward.ID)
	require.NoError(t, err)
	assert.Contains(t, out, `Resgatar "Caneca" por 100 EJN Coins? [y/N]`)
	assert.Contains(t, out, "cancelled")
	assert.Equal(t, 150, balance(t, dsn, user.ID))

	out, err = run(t, dsn, "s\n", "redeem", user.ID, reward.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "balance 50")
	assert.Equal(t, 50, balance(t, dsn, user.ID))
}

func TestRedeemFailureIsUndifferentiated(t *testing.T) {
	dsn, user, reward := seed(t, 10, 1)

	_, err := run(t, dsn, "", "redeem", "--yes", user.ID, reward.ID)
	require.Error(t, err)
	assert.Equal(t, "Resgate falhou. Verifique seu saldo ou o estoque do item.", err.Error())
}

func TestAwardCreditsBothCounters(t *testing.T) {
	dsn, user, _ := seed(t, 0, 0)

	out, err := run(t, dsn, "", "award", user.ID, "25")
	require.NoError(t, err)
	assert.Contains(t, out, "Ana now has 25 coins (25 lifetime)")

	_, err = run(t, dsn, "", "award", user.ID, "-3")
	assert.Error(t, err)
	_, err = run(t, dsn, "", "award", "ghost", "3")
	assert.Error(t, err)
}

func TestNotifyRequiresTitle(t *testing.T) {
	dsn, _, _ := seed(t, 0, 0)

	_, err := run(t, dsn, "", "notify", domain.NotifyAll, "Oi")
	assert.Error(t, err)
	_, err = run(t, dsn, "", "notify", "--title", "Aviso", domain.NotifyAll, "Oi")
	assert.NoError(t, err)
}

func TestWritesInvalidateServerCache(t *testing.T) {
	dsn, user, reward := seed(t, 150, 2)
	mr := miniredis.RunT(t)
	for _, key := range []string{utils.CacheKeyRewards, utils.CacheKeyRanking, utils.CacheKeyDashboard} {
		require.NoError(t, mr.Set(key, "stale"))
	}

	_, err := run(t, dsn, "", "--redis", mr.Addr(), "redeem", "--yes", user.ID, reward.ID)
	require.NoError(t, err)
	assert.False(t, mr.Exists(utils.CacheKeyRewards))
	assert.False(t, mr.Exists(utils.CacheKeyDashboard))
	assert.True(t, mr.Exists(utils.CacheKeyRanking))

	_, err = run(t, dsn, "", "--redis", mr.Addr(), "award", user.ID, "10")
	require.NoError(t, err)
	assert.False(t, mr.Exists(utils.CacheKeyRanking))
}

func TestNotifyPublishesChange(t *testing.T) {
	dsn, user, _ := seed(t, 0, 0)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := realtime.NewBroker(rdb).Subscribe(ctx, realtime.TableNotifications)
	require.NoError(t, err)

	_, err = run(t, dsn, "", "--redis", mr.Addr(), "notify", "--title", "Aviso", user.ID, "Oi")
	require.NoError(t, err)

	select {
	case ev := <-sub.Events():
		assert.Equal(t, realtime.Insert, ev.Type)
		var n domain.Notification
		require.NoError(t, json.Unmarshal(ev.Record, &n))
		assert.Equal(t, user.ID, n.UserID)
		assert.Equal(t, "Aviso", n.Title)
	case <-time.After(2 * time.Second):
		t.Fatal("notify published no change event")
	}
}

func TestUnreachableRedisFails(t *testing.T) {
	dsn, user, _ := seed(t, 0, 0)
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := run(t, dsn, "", "--redis", addr, "award", user.ID, "10")
	assert.ErrorContains(t, err, "connect to Redis")
}
