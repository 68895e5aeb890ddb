package service

import (
	"context"
	"errors"

	"cex-spot/biz/dal/pg"
	"cex-spot/biz/model"
	"cex-spot/conf"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EnsureSeedData 幂等初始化：管理员账号、计价币种标的、管理员铺底资金
// 每次启动都会调，已存在的数据原样保留
func EnsureSeedData(ctx context.Context) error {
	cfg := conf.GetConf().Engine
	db := pg.GormDB.WithContext(ctx)

	admin, err := pg.GetUserByName(db, "admin")
	if errors.Is(err, gorm.ErrRecordNotFound) {
		apiKey := cfg.SeedAdminKey
		if apiKey == "" {
			apiKey = "key-" + uuid.NewString()
		}
		admin = &model.User{
			UserID:   uuid.NewString(),
			Name:     "admin",
			Role:     model.RoleAdmin,
			APIKey:   apiKey,
			IsActive: true,
		}
		if err := pg.CreateUser(db, admin); err != nil {
			return err
		}
		hlog.Infof("管理员账号已创建, user_id=%s, api_key=%s", admin.UserID, admin.APIKey)
	} else if err != nil {
		return err
	}

	quote := cfg.QuoteTicker
	if err := pg.EnsureInstrument(db, &model.Instrument{Ticker: quote, Name: quote}); err != nil {
		return err
	}

	// 管理员铺底资金，用于入金划转的资金来源
	if cfg.SeedBalance > 0 {
		cur, err := pg.GetBalance(db, admin.UserID, quote)
		if err != nil {
			return err
		}
		if cur == 0 {
			if err := AdminAdjustBalance(ctx, admin.UserID, quote, cfg.SeedBalance); err != nil {
				return err
			}
			hlog.Infof("管理员铺底资金已注入, ticker=%s, amount=%d", quote, cfg.SeedBalance)
		}
	}
	return nil
}
