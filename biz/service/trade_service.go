package service

import (
	"context"
	"encoding/json"
	"time"

	kafkaDal "cex-spot/biz/dal/kafka"
	"cex-spot/biz/dal/pg"
	"cex-spot/biz/dal/redis"
	"cex-spot/biz/model"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/segmentio/kafka-go"
)

// 成交回报链路：撮合事务提交后异步写 Kafka（批量），
// Kafka 写失败的批次落到 Redis 补偿队列，由后台协程重试，成交不丢

const (
	tradeHistoryMax   = 100
	txRetryQueueKey   = "tx:retry"
	txRetryInterval   = 5 * time.Second
	txBatchSize       = 100
	txBatchFlushEvery = 10 * time.Millisecond
)

var (
	txBatchChan   chan model.Transaction
	txKafkaTopic  string
	txWriterClose = make(chan struct{})
)

// InitTransactionPublisher 启动成交批量写 Kafka 协程和补偿重试协程
func InitTransactionPublisher(topic string) {
	txKafkaTopic = topic
	txBatchChan = make(chan model.Transaction, 10000)
	go batchTxKafkaWriter()
	go retryFailedTxBatches()
}

// ShutdownTransactionPublisher 通知写入协程写完剩余数据再退出
func ShutdownTransactionPublisher() {
	close(txWriterClose)
}

// SaveTransactionAsync 成交异步入发布队列，队列满直接进补偿队列不阻塞撮合
func SaveTransactionAsync(tr model.Transaction) {
	if txBatchChan == nil {
		return
	}
	select {
	case txBatchChan <- tr:
	default:
		hlog.Warnf("成交发布队列已满，转入补偿队列, tx_id=%s", tr.TxID)
		parkFailedTx(tr)
	}
}

func batchTxKafkaWriter() {
	batch := make([]kafka.Message, 0, txBatchSize)
	ticker := time.NewTicker(txBatchFlushEvery)
	defer ticker.Stop()
	for {
		select {
		case tr := <-txBatchChan:
			msgBytes, err := json.Marshal(tr)
			if err == nil {
				batch = append(batch, kafka.Message{Key: []byte(tr.Ticker), Value: msgBytes})
			}
			if len(batch) >= txBatchSize {
				flushTxKafkaBatch(&batch)
			}
		case <-ticker.C:
			if len(batch) > 0 {
				flushTxKafkaBatch(&batch)
			}
		case <-txWriterClose:
			if len(batch) > 0 {
				flushTxKafkaBatch(&batch)
			}
			return
		}
	}
}

func flushTxKafkaBatch(batch *[]kafka.Message) {
	if len(*batch) == 0 {
		return
	}
	writer := kafkaDal.GetWriter(txKafkaTopic)
	err := writer.WriteMessages(context.Background(), (*batch)...)
	if err != nil {
		hlog.Errorf("成交写入Kafka失败，批次转入补偿队列, topic=%v, count=%d, err=%v", txKafkaTopic, len(*batch), err)
		parkFailedBatch(*batch)
	}
	*batch = (*batch)[:0]
}

// parkFailedTx 单条成交入 Redis 补偿队列
func parkFailedTx(tr model.Transaction) {
	val, err := json.Marshal(tr)
	if err != nil {
		return
	}
	if err := redis.Client.RPush(context.Background(), txRetryQueueKey, val).Err(); err != nil {
		hlog.Errorf("成交写入补偿队列失败, tx_id=%s, err=%v", tr.TxID, err)
	}
}

func parkFailedBatch(batch []kafka.Message) {
	ctx := context.Background()
	vals := make([]interface{}, 0, len(batch))
	for _, m := range batch {
		vals = append(vals, m.Value)
	}
	if err := redis.Client.RPush(ctx, txRetryQueueKey, vals...).Err(); err != nil {
		hlog.Errorf("批次写入补偿队列失败, count=%d, err=%v", len(batch), err)
	}
}

// retryFailedTxBatches 后台补偿：周期性从 Redis 捞回失败成交重发 Kafka
func retryFailedTxBatches() {
	ticker := time.NewTicker(txRetryInterval)
	defer ticker.Stop()
	for {
		select {
		case <-txWriterClose:
			return
		case <-ticker.C:
			drainRetryQueue()
		}
	}
}

func drainRetryQueue() {
	ctx := context.Background()
	for {
		vals, err := redis.Client.LPopCount(ctx, txRetryQueueKey, txBatchSize).Result()
		if err != nil || len(vals) == 0 {
			return
		}
		batch := make([]kafka.Message, 0, len(vals))
		for _, v := range vals {
			batch = append(batch, kafka.Message{Value: []byte(v)})
		}
		writer := kafkaDal.GetWriter(txKafkaTopic)
		if err := writer.WriteMessages(ctx, batch...); err != nil {
			hlog.Errorf("补偿重发Kafka失败，批次退回队列, count=%d, err=%v", len(batch), err)
			parkFailedBatch(batch)
			return
		}
		hlog.Infof("补偿重发Kafka成功, count=%d", len(batch))
	}
}

// CacheTrade 最近成交写入 Redis，供行情接口优先读取
func CacheTrade(ticker string, tr model.Transaction, maxLen int64) {
	if redis.Client == nil {
		return
	}
	ctx := context.Background()
	key := "trades:" + ticker
	val, err := json.Marshal(tr)
	if err == nil {
		redis.Client.LPush(ctx, key, val)
		redis.Client.LTrim(ctx, key, 0, maxLen-1)
	}
}

// GetTradeHistory 最近成交，新的在前；优先 Redis，缓存未命中回源数据库
func GetTradeHistory(ctx context.Context, ticker string, limit int) ([]model.Transaction, error) {
	if limit <= 0 || limit > tradeHistoryMax {
		limit = tradeHistoryMax
	}
	if redis.Client == nil {
		return pg.ListTransactions(pg.GormDB.WithContext(ctx), ticker, limit)
	}
	key := "trades:" + ticker
	vals, err := redis.Client.LRange(ctx, key, 0, int64(limit-1)).Result()
	if err == nil && len(vals) > 0 {
		trades := make([]model.Transaction, 0, len(vals))
		for _, v := range vals {
			var tr model.Transaction
			if e := json.Unmarshal([]byte(v), &tr); e == nil {
				trades = append(trades, tr)
			}
		}
		if len(trades) > 0 {
			return trades, nil
		}
	}
	return pg.ListTransactions(pg.GormDB.WithContext(ctx), ticker, limit)
}
