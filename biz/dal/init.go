package dal

import (
	"cex-spot/biz/dal/kafka"
	"cex-spot/biz/dal/pg"
	"cex-spot/biz/dal/redis"
)

func Init() {
	pg.Init()
	redis.Init()
	kafka.Init()
}
