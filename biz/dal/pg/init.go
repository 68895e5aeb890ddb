package pg

import (
	"context"
	"fmt"

	"cex-spot/biz/model"
	"cex-spot/conf"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var PostgresClient *pgxpool.Pool
var GormDB *gorm.DB

func Init() {
	pgConf := conf.GetConf().Postgres
	// 初始化 Postgres 连接池
	if err := InitPool(pgConf.DSN); err != nil {
		panic(fmt.Sprintf("failed to connect to postgres: %v", err))
	}
	// 初始化 GORM DB
	if err := InitGorm(pgConf.DSN); err != nil {
		panic(fmt.Sprintf("failed to init gorm: %v", err))
	}
	// 自动迁移表结构
	if err := AutoMigrate(); err != nil {
		panic(fmt.Sprintf("failed to auto migrate: %v", err))
	}
}

func InitPool(dsn string) error {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return err
	}
	if err := pool.Ping(context.Background()); err != nil {
		return err
	}
	PostgresClient = pool
	return nil
}

func InitGorm(dsn string) error {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return err
	}
	GormDB = db
	return nil
}

func AutoMigrate() error {
	if GormDB == nil {
		return gorm.ErrInvalidDB
	}
	return GormDB.AutoMigrate(
		&model.User{},
		&model.Instrument{},
		&model.Order{},
		&model.Balance{},
		&model.Transaction{},
	)
}

func GetPool() *pgxpool.Pool {
	if PostgresClient == nil {
		panic("PostgresClient未初始化，请先调用 pg.Init()")
	}
	return PostgresClient
}
