package server

import (
	"context"
	"encoding/json"
	"sync"

	kafkaDal "cex-spot/biz/dal/kafka"
	"cex-spot/biz/engine"
	"cex-spot/biz/service"
	"cex-spot/conf"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/hertz-contrib/websocket"
	"github.com/segmentio/kafka-go"
)

// 行情推送 WebSocket。连接按订阅的 ticker 分片挂在哈希桶上，
// 每个 ticker 一个分发协程，写连接的动作丢进全局协程池，
// 缓冲打满时消息落到 Kafka 兜底而不是阻塞撮合

const shardNum = 32

var upgrader = websocket.HertzUpgrader{
	CheckOrigin: func(ctx *app.RequestContext) bool {
		return true
	},
}

type tickerShard struct {
	Mu     sync.RWMutex
	Subs   map[string]map[*websocket.Conn]struct{}
	MsgBuf map[string]chan []byte
}

var tickerShards [shardNum]*tickerShard

func init() {
	for i := 0; i < shardNum; i++ {
		tickerShards[i] = &tickerShard{
			Subs:   make(map[string]map[*websocket.Conn]struct{}),
			MsgBuf: make(map[string]chan []byte),
		}
	}
}

// 同一连接可能同时被广播分发协程和单播命中，
// 底层 websocket 连接不允许并发写，所有写都走 per-conn 互斥锁
var connWriteLocks sync.Map // map[*websocket.Conn]*sync.Mutex

func lockForConn(conn *websocket.Conn) *sync.Mutex {
	mu, _ := connWriteLocks.LoadOrStore(conn, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func writeConn(conn *websocket.Conn, msgType int, msg []byte) error {
	mu := lockForConn(conn)
	mu.Lock()
	defer mu.Unlock()
	return conn.WriteMessage(msgType, msg)
}

func getTickerShard(ticker string) *tickerShard {
	return tickerShards[fnv32(ticker)%shardNum]
}

func fnv32(key string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(key); i++ {
		h ^= uint32(key[i])
		h *= 16777619
	}
	return h
}

// ensureTickerDispatcher 每个 ticker 启一个分发协程，缓冲区关闭时自清理
func ensureTickerDispatcher(shard *tickerShard, ticker string) {
	if _, ok := shard.MsgBuf[ticker]; ok {
		return
	}
	msgBuf := make(chan []byte, 4096)
	shard.MsgBuf[ticker] = msgBuf
	go func() {
		for msg := range msgBuf {
			shard.Mu.RLock()
			conns := shard.Subs[ticker]
			for conn := range conns {
				conn := conn
				err := engine.BroadcastPool.Submit(func() {
					if err := writeConn(conn, websocket.TextMessage, msg); err != nil {
						hlog.Warnf("ws write failed, removing conn, ticker=%s, err=%v", ticker, err)
						cleanConnFromAllTickers(conn)
						_ = conn.Close()
					}
				})
				if err != nil {
					hlog.Errorf("broadcast pool submit failed: %v", err)
				}
			}
			shard.Mu.RUnlock()
		}
	}()
}

func cleanConnFromAllTickers(c *websocket.Conn) {
	for i := 0; i < shardNum; i++ {
		shard := tickerShards[i]
		shard.Mu.Lock()
		for ticker, conns := range shard.Subs {
			if _, ok := conns[c]; ok {
				delete(conns, c)
				if len(conns) == 0 {
					delete(shard.Subs, ticker)
				}
			}
		}
		shard.Mu.Unlock()
	}
}

// Broadcast 推送消息给订阅了该 ticker 的全部连接
// 作为 engine.Broadcaster 注入撮合引擎
func Broadcast(ticker string, msg []byte) {
	shard := getTickerShard(ticker)
	shard.Mu.Lock()
	ensureTickerDispatcher(shard, ticker)
	buf := shard.MsgBuf[ticker]
	shard.Mu.Unlock()
	select {
	case buf <- msg:
	default:
		hlog.Warnf("ticker %s ws buffer full, drop message", ticker)
		saveDroppedMessage(ticker, msg)
	}
}

// 缓冲打满被丢弃的消息异步写 Kafka，留待离线补发
func saveDroppedMessage(ticker string, msg []byte) {
	topic := conf.GetConf().Kafka.Topics["dropped"]
	if topic == "" {
		return
	}
	go func() {
		w := kafkaDal.GetWriter(topic)
		_ = w.WriteMessages(context.Background(), kafka.Message{
			Key:   []byte(ticker),
			Value: msg,
		})
	}()
}

type wsMessage struct {
	Action string `json:"action"`
	Ticker string `json:"ticker"`
	APIKey string `json:"api_key"`
}

// WSHandler GET /ws
// 支持 subscribe / unsubscribe / auth 三种 action；
// auth 成功后该连接可收到本人成交的单播回报
func WSHandler(ctx context.Context, c *app.RequestContext) {
	err := upgrader.Upgrade(c, func(conn *websocket.Conn) {
		var authedUserID string
		defer func() {
			cleanConnFromAllTickers(conn)
			if authedUserID != "" {
				unregisterUserConn(authedUserID, conn)
			}
			connWriteLocks.Delete(conn)
			_ = conn.Close()
		}()

		for {
			mt, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				continue
			}
			switch {
			case m.Action == "subscribe" && m.Ticker != "":
				shard := getTickerShard(m.Ticker)
				shard.Mu.Lock()
				if shard.Subs[m.Ticker] == nil {
					shard.Subs[m.Ticker] = make(map[*websocket.Conn]struct{})
				}
				shard.Subs[m.Ticker][conn] = struct{}{}
				ensureTickerDispatcher(shard, m.Ticker)
				shard.Mu.Unlock()
				ack := []byte(`{"type":"subscription_ack","ticker":"` + m.Ticker + `"}`)
				_ = writeConn(conn, mt, ack)
			case m.Action == "unsubscribe" && m.Ticker != "":
				shard := getTickerShard(m.Ticker)
				shard.Mu.Lock()
				if conns, ok := shard.Subs[m.Ticker]; ok {
					delete(conns, conn)
					if len(conns) == 0 {
						delete(shard.Subs, m.Ticker)
					}
				}
				shard.Mu.Unlock()
				ack := []byte(`{"type":"unsubscription_ack","ticker":"` + m.Ticker + `"}`)
				_ = writeConn(conn, mt, ack)
			case m.Action == "auth" && m.APIKey != "":
				u, err := service.AuthenticateAPIKey(ctx, m.APIKey)
				if err != nil {
					_ = writeConn(conn, mt, []byte(`{"type":"auth_error"}`))
					continue
				}
				authedUserID = u.UserID
				registerUserConn(u.UserID, conn)
				_ = writeConn(conn, mt, []byte(`{"type":"auth_ack","user_id":"`+u.UserID+`"}`))
			}
		}
	})
	if err != nil {
		hlog.Errorf("ws upgrade error: %v", err)
	}
}

// 用户ID到连接的映射，一个用户允许多个连接
var userConnMu sync.RWMutex
var userConns = make(map[string]map[*websocket.Conn]struct{})

func registerUserConn(userID string, conn *websocket.Conn) {
	userConnMu.Lock()
	defer userConnMu.Unlock()
	if userConns[userID] == nil {
		userConns[userID] = make(map[*websocket.Conn]struct{})
	}
	userConns[userID][conn] = struct{}{}
}

func unregisterUserConn(userID string, conn *websocket.Conn) {
	userConnMu.Lock()
	defer userConnMu.Unlock()
	if conns, ok := userConns[userID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(userConns, userID)
		}
	}
}

// Unicast 给指定用户的全部在线连接发消息
// 作为 engine.Unicaster 注入撮合引擎
func Unicast(userID string, msg []byte) {
	userConnMu.RLock()
	conns := make([]*websocket.Conn, 0, len(userConns[userID]))
	for conn := range userConns[userID] {
		conns = append(conns, conn)
	}
	userConnMu.RUnlock()
	for _, conn := range conns {
		_ = writeConn(conn, websocket.TextMessage, msg)
	}
}
