package service

import (
	"context"
	"testing"

	"cex-spot/biz/dal/pg"
	"cex-spot/biz/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminAdjustBalanceRejectsZeroDelta(t *testing.T) {
	err := AdminAdjustBalance(context.Background(), "u1", "BTC", 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAdminAdjustBalance(t *testing.T) {
	setupMatchTest(t)
	ctx := context.Background()

	err := AdminAdjustBalance(ctx, "ghost", "BTC", 100)
	assert.ErrorIs(t, err, ErrNotFound)

	u := &model.User{
		UserID: uuid.NewString(), Name: "alice", Role: model.RoleUser,
		APIKey: "key-" + uuid.NewString(), IsActive: true,
	}
	require.NoError(t, pg.CreateUser(pg.GormDB, u))

	require.NoError(t, AdminAdjustBalance(ctx, u.UserID, "BTC", 100))
	assert.Equal(t, int64(100), balanceOf(t, u.UserID, "BTC"))

	// 提穿余额整笔拒绝，余额不变
	err = AdminAdjustBalance(ctx, u.UserID, "BTC", -150)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, int64(100), balanceOf(t, u.UserID, "BTC"))

	require.NoError(t, AdminAdjustBalance(ctx, u.UserID, "BTC", -40))
	assert.Equal(t, int64(60), balanceOf(t, u.UserID, "BTC"))
}

func TestGetBalancesOmitsUnknownTickers(t *testing.T) {
	setupMatchTest(t)
	fund(t, "u1", "RUB", 500)

	balances, err := GetBalances(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"RUB": 500}, balances)
}
