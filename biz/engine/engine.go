package engine

import (
	"bytes"
	"context"
	"sync"

	"cex-spot/biz/model"

	"github.com/panjf2000/ants/v2"
)

var BufferPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

var BroadcastPool *ants.Pool

func InitBroadcastPool(size int) error {
	pool, err := ants.NewPool(size)
	if err != nil {
		return err
	}
	BroadcastPool = pool
	return nil
}

// Matcher 撮合引擎契约：吃单直到成交完、对手盘耗尽或被取消
// PublishDepth 在簿外变更（如撤单）后刷新并广播深度快照
type Matcher interface {
	Match(ctx context.Context, order *model.Order) ([]model.Transaction, error)
	PublishDepth(ctx context.Context, ticker string)
}

// Broadcaster 按 ticker 广播行情
type Broadcaster func(ticker string, msg []byte)

// Unicaster 按用户单播成交回报
type Unicaster func(userID string, msg []byte)
