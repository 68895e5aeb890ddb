package server

import (
	"testing"

	"github.com/hertz-contrib/websocket"
	"github.com/stretchr/testify/assert"
)

// 同一连接必须复用同一把写锁，不同连接互不阻塞
func TestLockForConnIdentity(t *testing.T) {
	c1 := &websocket.Conn{}
	c2 := &websocket.Conn{}

	mu1 := lockForConn(c1)
	mu1Again := lockForConn(c1)
	mu2 := lockForConn(c2)

	assert.Same(t, mu1, mu1Again)
	assert.NotSame(t, mu1, mu2)

	connWriteLocks.Delete(c1)
	connWriteLocks.Delete(c2)
}

func TestLockForConnReleasedAfterDelete(t *testing.T) {
	c := &websocket.Conn{}
	mu := lockForConn(c)
	connWriteLocks.Delete(c)

	// 删除后重新注册会拿到新锁
	assert.NotSame(t, mu, lockForConn(c))
	connWriteLocks.Delete(c)
}
