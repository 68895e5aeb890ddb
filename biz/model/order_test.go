package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecomputeStatus(t *testing.T) {
	o := &Order{Qty: 10, Status: StatusNew}

	o.Filled = 0
	o.RecomputeStatus()
	assert.Equal(t, StatusNew, o.Status)

	o.Filled = 4
	o.RecomputeStatus()
	assert.Equal(t, StatusPartiallyExecuted, o.Status)
	assert.Equal(t, int64(6), o.Remaining())

	o.Filled = 10
	o.RecomputeStatus()
	assert.Equal(t, StatusExecuted, o.Status)
	assert.False(t, o.IsActive())
}

func TestRecomputeStatusKeepsCancelled(t *testing.T) {
	// 撤销是终态，成交量再怎么算也不能翻回活跃状态
	o := &Order{Qty: 10, Filled: 4, Status: StatusCancelled}
	o.RecomputeStatus()
	assert.Equal(t, StatusCancelled, o.Status)
	assert.False(t, o.IsActive())
}

func TestOpposite(t *testing.T) {
	assert.Equal(t, DirectionSell, Opposite(DirectionBuy))
	assert.Equal(t, DirectionBuy, Opposite(DirectionSell))
}
